package services

import (
	"fmt"
	"strings"

	"github.com/ersonp/wotd/internal/domain/entities"
)

// Clause markers. Exactly one of them appears in every built prompt.
const (
	AvoidanceMarker   = "Do not use any of these words:"
	NoAvoidanceMarker = "No avoidance list applies."
)

const promptHeader = `# Role and Objective
Generate one engaging, educational "Word of the Day" entry for a general audience:
the word, its part of speech, a definition, an original example sentence, a brief
etymology and a phonetic respelling.

# Style Rules
- Keep the tone warm, clear and accessible; avoid jargon in the definition.
- Choose an uncommon but real English word that is attested in standard dictionaries.
- Do not invent words or use neologisms that are not historically attested.
- Use British spelling throughout.
- Do not include profanity, slurs or offensive content.
- The example sentence must be original and use the word naturally.
- The etymology must be a single sentence that ends with a full stop.
- The pronunciation is a simple respelling with the stressed syllable in capitals, e.g. ih-FEM-er-ul.

# Field Lengths (characters)
`

const promptFooter = `
# Output
Return a single JSON object matching the supplied schema and nothing else.
Do not add fields that are not in the schema.`

// PromptBuilder renders the generation instruction. It is pure: the same
// avoid list always yields the same text.
type PromptBuilder struct {
	bounds entities.FieldBounds
}

// NewPromptBuilder creates a builder whose length rules follow bounds.
func NewPromptBuilder(bounds entities.FieldBounds) *PromptBuilder {
	return &PromptBuilder{bounds: bounds}
}

// Build returns the instruction text for the given avoid list.
func (p *PromptBuilder) Build(avoid []string) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)

	ranges := p.bounds.Ranges()
	for _, name := range p.bounds.FieldNames() {
		r := ranges[name]
		if name == entities.FieldPronunciation {
			fmt.Fprintf(&sb, "- %s: optional, at most %d\n", name, r.Max)
			continue
		}
		fmt.Fprintf(&sb, "- %s: %d to %d\n", name, r.Min, r.Max)
	}

	sb.WriteString("\n# Recently Used Words\n")
	words := nonEmpty(avoid)
	if len(words) == 0 {
		sb.WriteString(NoAvoidanceMarker)
		sb.WriteString(" Any suitable word may be chosen.\n")
	} else {
		sb.WriteString(AvoidanceMarker)
		sb.WriteString(" ")
		sb.WriteString(strings.Join(words, ", "))
		sb.WriteString("\nPick a word that is not in this list, including other forms of the same word.\n")
	}

	sb.WriteString(promptFooter)
	return sb.String()
}

func nonEmpty(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			out = append(out, w)
		}
	}
	return out
}
