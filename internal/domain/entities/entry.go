// Package entities contains the core domain types.
package entities

import (
	"fmt"
	"time"
)

// DateKeyLayout is the layout of a DateKey (ISO calendar date).
const DateKeyLayout = "2006-01-02"

// DateKey identifies a calendar day, e.g. "2025-01-01". It carries no time of day.
type DateKey string

// ParseDateKey parses an ISO calendar date.
func ParseDateKey(s string) (DateKey, error) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return "", &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not a YYYY-MM-DD date", s)}
	}
	return DateKey(t.Format(DateKeyLayout)), nil
}

// DateKeyOf returns the calendar date of t in t's own location.
func DateKeyOf(t time.Time) DateKey {
	return DateKey(t.Format(DateKeyLayout))
}

// Time returns midnight UTC of the day.
func (d DateKey) Time() time.Time {
	t, _ := time.Parse(DateKeyLayout, string(d))
	return t
}

// AddDays returns the date n days later (or earlier for negative n).
func (d DateKey) AddDays(n int) DateKey {
	return DateKeyOf(d.Time().AddDate(0, 0, n))
}

func (d DateKey) String() string {
	return string(d)
}

// Fields holds the generated content of an entry.
type Fields struct {
	Word            string `json:"word"`
	PartOfSpeech    string `json:"part_of_speech"`
	Definition      string `json:"definition"`
	ExampleSentence string `json:"example_sentence"`
	Etymology       string `json:"etymology"`
	Pronunciation   string `json:"pronunciation"` // phonetic respelling, empty when absent
}

// Entry is one word of the day. There is at most one Entry per Date.
type Entry struct {
	ID   string  `json:"id"`
	Date DateKey `json:"date"`
	Fields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Words projects the Word field of each entry.
func Words(entries []Entry) []string {
	words := make([]string, 0, len(entries))
	for i := range entries {
		words = append(words, entries[i].Word)
	}
	return words
}
