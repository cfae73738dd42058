package entities

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field names as they appear in the output schema and in storage.
const (
	FieldWord            = "word"
	FieldPartOfSpeech    = "part_of_speech"
	FieldDefinition      = "definition"
	FieldExampleSentence = "example_sentence"
	FieldEtymology       = "etymology"
	FieldPronunciation   = "pronunciation"
)

// SchemaName is the name under which the output schema is sent upstream.
const SchemaName = "word_of_the_day"

// terminalMarks are the characters an etymology sentence may end with.
const terminalMarks = ".!?"

// Bounds is an inclusive length range measured in characters (runes).
type Bounds struct {
	Min int `json:"min" yaml:"min" mapstructure:"min"`
	Max int `json:"max" yaml:"max" mapstructure:"max"`
}

// FieldBounds is the single definition of per-field length limits. Both the
// generation request schema and entry validation are derived from it.
type FieldBounds struct {
	Word            Bounds
	PartOfSpeech    Bounds
	Definition      Bounds
	ExampleSentence Bounds
	Etymology       Bounds
	Pronunciation   Bounds
}

// DefaultFieldBounds returns the stock limits.
func DefaultFieldBounds() FieldBounds {
	return FieldBounds{
		Word:            Bounds{Min: 3, Max: 15},
		PartOfSpeech:    Bounds{Min: 3, Max: 12},
		Definition:      Bounds{Min: 15, Max: 120},
		ExampleSentence: Bounds{Min: 20, Max: 200},
		Etymology:       Bounds{Min: 15, Max: 180},
		Pronunciation:   Bounds{Min: 0, Max: 128},
	}
}

type fieldSpec struct {
	name        string
	description string
	bounds      Bounds
	optional    bool
	value       func(Fields) string
}

func (b FieldBounds) specs() []fieldSpec {
	return []fieldSpec{
		{FieldWord, "A single vocabulary word.", b.Word, false, func(f Fields) string { return f.Word }},
		{FieldPartOfSpeech, "The word's grammatical role (e.g. noun, verb, adjective).", b.PartOfSpeech, false, func(f Fields) string { return f.PartOfSpeech }},
		{FieldDefinition, "Concise dictionary-style definition.", b.Definition, false, func(f Fields) string { return f.Definition }},
		{FieldExampleSentence, "Natural example of correct word usage.", b.ExampleSentence, false, func(f Fields) string { return f.ExampleSentence }},
		{FieldEtymology, "Short origin of the word as a single sentence ending in a full stop.", b.Etymology, false, func(f Fields) string { return f.Etymology }},
		{FieldPronunciation, "Phonetic respelling, e.g. ih-FEM-er-ul.", b.Pronunciation, true, func(f Fields) string { return f.Pronunciation }},
	}
}

// FieldNames returns the schema field names in declaration order.
func (b FieldBounds) FieldNames() []string {
	specs := b.specs()
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.name)
	}
	return names
}

// Ranges returns the bounds keyed by field name.
func (b FieldBounds) Ranges() map[string]Bounds {
	specs := b.specs()
	ranges := make(map[string]Bounds, len(specs))
	for _, s := range specs {
		ranges[s.name] = s.bounds
	}
	return ranges
}

// JSONSchema renders the strict output schema. Optional fields are nullable
// but still listed as required, which strict structured output demands.
func (b FieldBounds) JSONSchema() map[string]any {
	specs := b.specs()
	properties := make(map[string]any, len(specs))
	required := make([]string, 0, len(specs))

	for _, s := range specs {
		prop := map[string]any{
			"description": s.description,
			"maxLength":   s.bounds.Max,
		}
		if s.optional {
			prop["type"] = []string{"string", "null"}
		} else {
			prop["type"] = "string"
			prop["minLength"] = s.bounds.Min
		}
		properties[s.name] = prop
		required = append(required, s.name)
	}

	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

// Validate checks fields against the bounds. Nothing is trimmed or truncated:
// the first violation is returned as a *ValidationError.
func (b FieldBounds) Validate(f Fields) error {
	for _, s := range b.specs() {
		v := s.value(f)
		if s.optional && v == "" {
			continue
		}
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Field: s.name, Reason: "must not be empty"}
		}
		n := utf8.RuneCountInString(v)
		if n < s.bounds.Min || n > s.bounds.Max {
			return &ValidationError{
				Field:  s.name,
				Reason: fmt.Sprintf("length %d outside %d-%d", n, s.bounds.Min, s.bounds.Max),
			}
		}
	}

	ety := strings.TrimSpace(f.Etymology)
	if !strings.ContainsAny(ety[len(ety)-1:], terminalMarks) {
		return &ValidationError{Field: FieldEtymology, Reason: "must end with a terminal mark"}
	}
	if hasSentenceBreak(ety) {
		return &ValidationError{Field: FieldEtymology, Reason: "must be a single sentence"}
	}
	return nil
}

// hasSentenceBreak reports whether a terminal mark followed by whitespace
// occurs before the end of s.
func hasSentenceBreak(s string) bool {
	prevTerminal := false
	for _, r := range s {
		if prevTerminal && unicode.IsSpace(r) {
			return true
		}
		prevTerminal = strings.ContainsRune(terminalMarks, r)
	}
	return false
}

// Check verifies the bounds themselves are coherent.
func (b FieldBounds) Check() error {
	for _, s := range b.specs() {
		if s.bounds.Min < 0 || s.bounds.Max < 1 || s.bounds.Min > s.bounds.Max {
			return &ValidationError{
				Field:  s.name,
				Reason: fmt.Sprintf("invalid bounds %d-%d", s.bounds.Min, s.bounds.Max),
			}
		}
		if !s.optional && s.bounds.Min < 1 {
			return &ValidationError{Field: s.name, Reason: "required field needs min >= 1"}
		}
	}
	return nil
}
