package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/wotd/internal/domain/entities"
)

// Generator is a mock implementation of ports.Generator.
type Generator struct {
	mu sync.Mutex

	// Generate return values
	Fields entities.Fields
	Err    error

	// Hook runs before returning, e.g. to block until ctx is done.
	Hook func(ctx context.Context) error

	// Recorded calls
	Instructions []string
}

// Generate returns the configured fields or error.
func (m *Generator) Generate(ctx context.Context, instruction string) (entities.Fields, error) {
	m.mu.Lock()
	m.Instructions = append(m.Instructions, instruction)
	m.mu.Unlock()

	if m.Hook != nil {
		if err := m.Hook(ctx); err != nil {
			return entities.Fields{}, err
		}
	}
	if m.Err != nil {
		return entities.Fields{}, m.Err
	}
	return m.Fields, nil
}

// Calls returns how many times Generate ran.
func (m *Generator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Instructions)
}
