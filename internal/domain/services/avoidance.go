package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/domain/ports"
)

// DefaultAvoidanceWindowDays is how far back recent words are excluded.
const DefaultAvoidanceWindowDays = 60

// AvoidanceListBuilder collects recently used words so the generator can be
// told not to repeat them. It is a best-effort recency guard: the model still
// chooses the word.
type AvoidanceListBuilder struct {
	store ports.EntryStore
	now   func() time.Time
}

// NewAvoidanceListBuilder creates a builder. A nil now uses time.Now.
func NewAvoidanceListBuilder(store ports.EntryStore, now func() time.Time) *AvoidanceListBuilder {
	if now == nil {
		now = time.Now
	}
	return &AvoidanceListBuilder{store: store, now: now}
}

// RecentWords returns the words of entries dated within the last windowDays.
// The window is anchored at the generation instant in UTC, not at midnight
// of the day-key zone. A zero window yields an empty list.
func (b *AvoidanceListBuilder) RecentWords(ctx context.Context, windowDays int) ([]string, error) {
	if windowDays < 0 {
		return nil, &entities.ValidationError{
			Field:  "avoidance_window_days",
			Reason: fmt.Sprintf("must be >= 0, got %d", windowDays),
		}
	}
	if windowDays == 0 {
		return []string{}, nil
	}

	now := b.now().UTC()
	start := entities.DateKeyOf(now.AddDate(0, 0, -windowDays))
	end := entities.DateKeyOf(now)

	recent, err := b.store.FindInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("finding recent entries: %w", err)
	}

	seen := make(map[string]struct{}, len(recent))
	words := make([]string, 0, len(recent))
	for _, w := range entities.Words(recent) {
		key := strings.ToLower(strings.TrimSpace(w))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, w)
	}
	return words, nil
}
