// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/wotd/internal/domain/entities"
)

// EntryStore is an in-memory ports.EntryStore that enforces date uniqueness.
type EntryStore struct {
	mu      sync.Mutex
	entries map[entities.DateKey]entities.Entry

	// Error overrides, returned instead of performing the operation.
	SchemaErr error
	FindErr   error
	RangeErr  error
	CreateErr error

	// BeforeCreate runs ahead of each Create while the store is unlocked.
	BeforeCreate func(date entities.DateKey)

	// Call counters.
	SchemaCalls int
	Closed      bool
	FindCalls   int
	RangeCalls  int
	CreateCalls int
}

// NewEntryStore returns a store seeded with entries.
func NewEntryStore(seed ...entities.Entry) *EntryStore {
	s := &EntryStore{entries: make(map[entities.DateKey]entities.Entry)}
	for _, e := range seed {
		s.entries[e.Date] = e
	}
	return s
}

// EnsureSchema records the call.
func (s *EntryStore) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SchemaCalls++
	return s.SchemaErr
}

// Close records the call.
func (s *EntryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// FindByDate returns the stored entry or entities.ErrNotFound.
func (s *EntryStore) FindByDate(ctx context.Context, date entities.DateKey) (*entities.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindCalls++
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	e, ok := s.entries[date]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return &e, nil
}

// FindInRange returns entries within [start, end] ordered by date.
func (s *EntryStore) FindInRange(ctx context.Context, start, end entities.DateKey) ([]entities.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RangeCalls++
	if s.RangeErr != nil {
		return nil, s.RangeErr
	}
	result := make([]entities.Entry, 0)
	for d, e := range s.entries {
		if d >= start && d <= end {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

// Create inserts an entry unless the date is taken.
func (s *EntryStore) Create(ctx context.Context, date entities.DateKey, fields entities.Fields) (*entities.Entry, error) {
	if s.BeforeCreate != nil {
		s.BeforeCreate(date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}
	if _, ok := s.entries[date]; ok {
		return nil, entities.ErrConflict
	}
	now := time.Now().UTC()
	e := entities.Entry{
		ID:        uuid.New().String(),
		Date:      date,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.entries[date] = e
	return &e, nil
}

// Put stores an entry directly, bypassing the uniqueness check.
func (s *EntryStore) Put(e entities.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Date] = e
}

// Len returns the number of stored entries.
func (s *EntryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
