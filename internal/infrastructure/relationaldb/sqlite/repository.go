// Package sqlite provides a SQLite implementation of the EntryStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

const memoryPath = ":memory:"

// Repository implements ports.EntryStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := cfg.Path
	if cfg.Path != memoryPath {
		// DSN pragmas apply to every pooled connection, not just the first.
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: is its own database.
	if cfg.Path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to sqlite database: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- One entry per calendar day
	CREATE TABLE IF NOT EXISTS wotd_entries (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL UNIQUE,
		word TEXT NOT NULL,
		part_of_speech TEXT NOT NULL,
		definition TEXT NOT NULL,
		example_sentence TEXT NOT NULL,
		etymology TEXT NOT NULL,
		pronunciation TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_wotd_entries_word ON wotd_entries(word);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const selectColumns = `id, date, word, part_of_speech, definition, example_sentence,
	etymology, pronunciation, created_at, updated_at`

// FindByDate returns the entry for date.
func (r *Repository) FindByDate(ctx context.Context, date entities.DateKey) (*entities.Entry, error) {
	query := `SELECT ` + selectColumns + ` FROM wotd_entries WHERE date = ?`
	row := r.db.QueryRowContext(ctx, query, date.String())

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entry: %w", err)
	}
	return entry, nil
}

// FindInRange returns entries between start and end inclusive, oldest first.
func (r *Repository) FindInRange(ctx context.Context, start, end entities.DateKey) ([]entities.Entry, error) {
	query := `SELECT ` + selectColumns + `
		FROM wotd_entries
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`
	rows, err := r.db.QueryContext(ctx, query, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	result := []entities.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		result = append(result, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return result, nil
}

// Create inserts the entry for date. An existing row for the date is left
// untouched and entities.ErrConflict is returned.
func (r *Repository) Create(ctx context.Context, date entities.DateKey, fields entities.Fields) (*entities.Entry, error) {
	now := timeNow().UTC()
	entry := &entities.Entry{
		ID:        generateUUID(),
		Date:      date,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO wotd_entries (id, date, word, part_of_speech, definition, example_sentence,
			etymology, pronunciation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.ID,
		date.String(),
		fields.Word,
		fields.PartOfSpeech,
		fields.Definition,
		fields.ExampleSentence,
		fields.Etymology,
		nullString(fields.Pronunciation),
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking inserted rows: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("entry for %s: %w", date, entities.ErrConflict)
	}
	return entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*entities.Entry, error) {
	var (
		entry         entities.Entry
		date          string
		pronunciation sql.NullString
	)
	err := s.Scan(
		&entry.ID,
		&date,
		&entry.Word,
		&entry.PartOfSpeech,
		&entry.Definition,
		&entry.ExampleSentence,
		&entry.Etymology,
		&pronunciation,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Date = entities.DateKey(date)
	entry.Pronunciation = pronunciation.String
	return &entry, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
