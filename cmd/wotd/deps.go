package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ersonp/wotd/internal/application/handlers"
	"github.com/ersonp/wotd/internal/domain/ports"
	"github.com/ersonp/wotd/internal/domain/services"
	"github.com/ersonp/wotd/internal/infrastructure/config"
	llm "github.com/ersonp/wotd/internal/infrastructure/llm/openai"
	"github.com/ersonp/wotd/internal/infrastructure/relationaldb/mysql"
	"github.com/ersonp/wotd/internal/infrastructure/relationaldb/sqlite"
)

// generatorMode says whether a command needs the generator.
type generatorMode int

const (
	// noGenerator builds a read-only service.
	noGenerator generatorMode = iota
	// optionalGenerator builds one when an API key is configured.
	optionalGenerator
	// requireGenerator fails without an API key.
	requireGenerator
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config      *config.Config
	Logger      *slog.Logger
	Resolver    *services.DayKeyResolver
	WordHandler *handlers.WordHandler
}

// loadConfig reads configuration from --config or the working directory.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd, globalConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if globalVerbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// openStore opens the entry store selected by database.driver.
func openStore(cfg *config.Config) (ports.EntryStore, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err := mysql.Open(cfg.Database.MySQL)
		if err != nil {
			return nil, err
		}
		return mysql.NewRepository(db), nil
	case config.DriverSQLite:
		return sqlite.NewRepository(cfg.Database.SQLite)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// withDeps loads config and builds dependencies once, then calls the
// provided function. It handles cleanup automatically.
func withDeps(ctx context.Context, mode generatorMode, fn func(*Deps) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	bounds := cfg.Bounds()

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening entry store: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	var generator ports.Generator
	if mode != noGenerator {
		gen, err := llm.NewGenerator(cfg.LLM, bounds)
		switch {
		case err == nil:
			generator = gen
		case mode == requireGenerator:
			return fmt.Errorf("creating generator: %w", err)
		default:
			logger.Warn("generation disabled", "reason", err)
		}
	}

	resolver := services.NewDayKeyResolver(loc, nil)
	wordService := services.NewWordService(
		resolver,
		store,
		services.NewAvoidanceListBuilder(store, nil),
		services.NewPromptBuilder(bounds),
		generator,
		services.WordServiceOptions{
			AvoidanceWindowDays: cfg.Generation.AvoidanceWindowDays,
			GenerationTimeout:   cfg.LLM.Timeout,
			Bounds:              bounds,
			Logger:              logger,
		},
	)

	return fn(&Deps{
		Config:      cfg,
		Logger:      logger,
		Resolver:    resolver,
		WordHandler: handlers.NewWordHandler(wordService),
	})
}

// errNoEntry is reported when a lookup finds nothing.
var errNoEntry = errors.New("no word of the day for this date")
