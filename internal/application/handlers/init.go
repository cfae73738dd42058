// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/wotd/internal/domain/ports"
	"github.com/ersonp/wotd/internal/infrastructure/config"
)

// StoreOpener opens the entry store described by cfg.
type StoreOpener func(cfg *config.Config) (ports.EntryStore, error)

// InitHandler handles workspace initialization.
type InitHandler struct {
	openStore StoreOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(openStore StoreOpener) *InitHandler {
	return &InitHandler{openStore: openStore}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath string
	Driver     string
}

// Handle writes the default config and creates the entry schema.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("wotd already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath, "")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := h.openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening entry store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
		Driver:     cfg.Database.Driver,
	}, nil
}
