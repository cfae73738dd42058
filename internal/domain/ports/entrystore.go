// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/wotd/internal/domain/entities"
)

// EntryStore persists dated entries. The store's unique constraint on date is
// the only serialization point between concurrent generators.
type EntryStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// FindByDate returns the entry for date, or entities.ErrNotFound.
	FindByDate(ctx context.Context, date entities.DateKey) (*entities.Entry, error)

	// FindInRange returns entries with start <= date <= end, ordered by date ascending.
	// An empty result is not an error.
	FindInRange(ctx context.Context, start, end entities.DateKey) ([]entities.Entry, error)

	// Create inserts a new entry. It fails with entities.ErrConflict if date
	// already has one; existing rows are never overwritten.
	Create(ctx context.Context, date entities.DateKey, fields entities.Fields) (*entities.Entry, error)
}
