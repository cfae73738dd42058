package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ersonp/wotd/internal/domain/entities"
)

var (
	wordColor  = color.New(color.FgGreen, color.Bold)
	labelColor = color.New(color.Faint)
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// printEntry writes a human-readable rendering of one entry.
func printEntry(w io.Writer, e *entities.Entry) {
	fmt.Fprintf(w, "%s  %s", e.Date, wordColor.Sprint(e.Word))
	if e.Pronunciation != "" {
		fmt.Fprintf(w, " (%s)", e.Pronunciation)
	}
	fmt.Fprintf(w, "\n%s\n\n", labelColor.Sprint(e.PartOfSpeech))
	fmt.Fprintf(w, "%s\n\n", e.Definition)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Example:"), e.ExampleSentence)
	fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Origin:"), e.Etymology)
}

// printEntryLine writes one entry as a single summary line.
func printEntryLine(w io.Writer, e *entities.Entry) {
	fmt.Fprintf(w, "%s  %-15s  %s\n", e.Date, e.Word, e.Definition)
}
