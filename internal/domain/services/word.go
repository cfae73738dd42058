// Package services contains domain business logic.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/domain/ports"
)

// ErrNoGenerator is returned by GetOrGenerate when the service was built
// without a generator (read-only mode).
var ErrNoGenerator = errors.New("no generator configured")

// WordServiceOptions tunes the orchestrator.
type WordServiceOptions struct {
	// AvoidanceWindowDays is the trailing window of words to exclude. Zero disables it.
	AvoidanceWindowDays int
	// GenerationTimeout bounds a single generator call. Zero means no extra bound.
	GenerationTimeout time.Duration
	// Bounds are applied to generated fields before persisting.
	Bounds entities.FieldBounds
	Logger *slog.Logger
}

// WordService serves today's entry, generating and persisting it when absent.
type WordService struct {
	resolver  *DayKeyResolver
	store     ports.EntryStore
	avoidance *AvoidanceListBuilder
	prompts   *PromptBuilder
	generator ports.Generator
	opts      WordServiceOptions
	logger    *slog.Logger
}

// NewWordService creates a new word service. generator may be nil for
// read-only use.
func NewWordService(
	resolver *DayKeyResolver,
	store ports.EntryStore,
	avoidance *AvoidanceListBuilder,
	prompts *PromptBuilder,
	generator ports.Generator,
	opts WordServiceOptions,
) *WordService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Bounds == (entities.FieldBounds{}) {
		opts.Bounds = entities.DefaultFieldBounds()
	}
	return &WordService{
		resolver:  resolver,
		store:     store,
		avoidance: avoidance,
		prompts:   prompts,
		generator: generator,
		opts:      opts,
		logger:    logger,
	}
}

// Resolver returns the day-key resolver shared by all callers.
func (s *WordService) Resolver() *DayKeyResolver {
	return s.resolver
}

// Today returns today's entry or entities.ErrNotFound. It never generates.
func (s *WordService) Today(ctx context.Context) (*entities.Entry, error) {
	return s.Find(ctx, s.resolver.TodayKey())
}

// Find returns the entry for date or entities.ErrNotFound.
func (s *WordService) Find(ctx context.Context, date entities.DateKey) (*entities.Entry, error) {
	entry, err := s.store.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("finding entry for %s: %w", date, err)
	}
	return entry, nil
}

// Recent returns entries from the last days days up to and including today,
// ordered by date.
func (s *WordService) Recent(ctx context.Context, days int) ([]entities.Entry, error) {
	if days < 0 {
		return nil, &entities.ValidationError{Field: "days", Reason: fmt.Sprintf("must be >= 0, got %d", days)}
	}
	today := s.resolver.TodayKey()
	recent, err := s.store.FindInRange(ctx, today.AddDays(-days), today)
	if err != nil {
		return nil, fmt.Errorf("finding recent entries: %w", err)
	}
	return recent, nil
}

// GetOrGenerate returns today's entry, generating and persisting it first if
// needed. created reports whether this call persisted it. If a concurrent
// caller persists first, that caller's entry is returned.
func (s *WordService) GetOrGenerate(ctx context.Context) (entry *entities.Entry, created bool, err error) {
	key := s.resolver.TodayKey()
	logger := s.logger.With("date", key.String())

	entry, err = s.lookup(ctx, key)
	if err == nil {
		logger.Debug("entry already exists", "word", entry.Word)
		return entry, false, nil
	}
	if !errors.Is(err, entities.ErrNotFound) {
		return nil, false, err
	}

	if s.generator == nil {
		return nil, false, ErrNoGenerator
	}

	fields, err := s.generate(ctx, logger)
	if err != nil {
		logger.Warn("generation failed", "error", err)
		return nil, false, err
	}

	if err := s.opts.Bounds.Validate(fields); err != nil {
		logger.Warn("generated entry rejected", "word", fields.Word, "error", err)
		return nil, false, fmt.Errorf("%w: %w", entities.ErrGeneration, err)
	}

	entry, err = s.store.Create(ctx, key, fields)
	switch {
	case err == nil:
		logger.Info("entry created", "word", entry.Word)
		return entry, true, nil
	case errors.Is(err, entities.ErrConflict):
		logger.Info("entry created concurrently, re-reading", "discarded_word", fields.Word)
		entry, err = s.lookup(ctx, key)
		if err != nil {
			return nil, false, err
		}
		return entry, false, nil
	default:
		return nil, false, fmt.Errorf("persisting entry: %w", err)
	}
}

func (s *WordService) lookup(ctx context.Context, key entities.DateKey) (*entities.Entry, error) {
	entry, err := s.store.FindByDate(ctx, key)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("looking up entry: %w", err)
	}
	return entry, nil
}

func (s *WordService) generate(ctx context.Context, logger *slog.Logger) (entities.Fields, error) {
	avoid, err := s.avoidance.RecentWords(ctx, s.opts.AvoidanceWindowDays)
	if err != nil {
		return entities.Fields{}, fmt.Errorf("building avoidance list: %w", err)
	}
	instruction := s.prompts.Build(avoid)

	genCtx := ctx
	if s.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.opts.GenerationTimeout)
		defer cancel()
	}

	logger.Info("generating entry", "avoid_count", len(avoid))
	start := time.Now()
	fields, err := s.generator.Generate(genCtx, instruction)
	if err != nil {
		if errors.Is(err, entities.ErrGeneration) {
			return entities.Fields{}, err
		}
		return entities.Fields{}, fmt.Errorf("%w: %w", entities.ErrGeneration, err)
	}
	logger.Debug("generation finished", "word", fields.Word, "elapsed", time.Since(start))
	return fields, nil
}
