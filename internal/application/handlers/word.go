package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/domain/services"
)

// WordHandler handles word of the day operations at the application layer.
type WordHandler struct {
	service *services.WordService
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(service *services.WordService) *WordHandler {
	return &WordHandler{service: service}
}

// WordResult contains a single entry and whether this call created it.
type WordResult struct {
	Entry   *entities.Entry `json:"entry"`
	Created bool            `json:"created"`
}

// RecentResult contains the entries of a trailing window.
type RecentResult struct {
	Days    int              `json:"days"`
	Entries []entities.Entry `json:"entries"`
}

// HandleToday returns today's entry without generating.
func (h *WordHandler) HandleToday(ctx context.Context) (*WordResult, error) {
	entry, err := h.service.Today(ctx)
	if err != nil {
		return nil, err
	}
	return &WordResult{Entry: entry}, nil
}

// HandleGenerate returns today's entry, generating it when absent.
func (h *WordHandler) HandleGenerate(ctx context.Context) (*WordResult, error) {
	entry, created, err := h.service.GetOrGenerate(ctx)
	if err != nil {
		return nil, err
	}
	return &WordResult{Entry: entry, Created: created}, nil
}

// HandleByDate returns the entry for a YYYY-MM-DD date.
func (h *WordHandler) HandleByDate(ctx context.Context, raw string) (*WordResult, error) {
	date, err := entities.ParseDateKey(raw)
	if err != nil {
		return nil, err
	}
	entry, err := h.service.Find(ctx, date)
	if err != nil {
		return nil, err
	}
	return &WordResult{Entry: entry}, nil
}

// HandleRecent returns entries from the last days days, oldest first.
func (h *WordHandler) HandleRecent(ctx context.Context, days int) (*RecentResult, error) {
	entries, err := h.service.Recent(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("listing recent entries: %w", err)
	}
	return &RecentResult{Days: days, Entries: entries}, nil
}
