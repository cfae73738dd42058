package ports

import (
	"context"

	"github.com/ersonp/wotd/internal/domain/entities"
)

// Generator produces entry content from an instruction using a generative
// model constrained to the entry output schema. It never retries.
type Generator interface {
	// Generate returns schema-conformant fields or an error wrapping entities.ErrGeneration.
	Generate(ctx context.Context, instruction string) (entities.Fields, error)
}
