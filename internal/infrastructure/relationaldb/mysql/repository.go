package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ersonp/wotd/internal/domain/entities"
)

// errDuplicateEntry is the MySQL error number for a unique key violation.
const errDuplicateEntry = 1062

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

var newID = func() string { return uuid.New().String() }

// entryRow is the wotd_entries row layout.
type entryRow struct {
	ID              string         `db:"id"`
	Date            time.Time      `db:"date"`
	Word            string         `db:"word"`
	PartOfSpeech    string         `db:"part_of_speech"`
	Definition      string         `db:"definition"`
	ExampleSentence string         `db:"example_sentence"`
	Etymology       string         `db:"etymology"`
	Pronunciation   sql.NullString `db:"pronunciation"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r entryRow) toEntry() entities.Entry {
	return entities.Entry{
		ID:   r.ID,
		Date: entities.DateKeyOf(r.Date),
		Fields: entities.Fields{
			Word:            r.Word,
			PartOfSpeech:    r.PartOfSpeech,
			Definition:      r.Definition,
			ExampleSentence: r.ExampleSentence,
			Etymology:       r.Etymology,
			Pronunciation:   r.Pronunciation.String,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repository implements ports.EntryStore using MySQL.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new MySQL repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

const createTable = `CREATE TABLE IF NOT EXISTS wotd_entries (
	id CHAR(36) NOT NULL PRIMARY KEY,
	date DATE NOT NULL,
	word VARCHAR(64) NOT NULL,
	part_of_speech VARCHAR(32) NOT NULL,
	definition TEXT NOT NULL,
	example_sentence TEXT NOT NULL,
	etymology TEXT NOT NULL,
	pronunciation VARCHAR(255) NULL,
	created_at DATETIME(6) NOT NULL,
	updated_at DATETIME(6) NOT NULL,
	UNIQUE KEY uq_wotd_entries_date (date),
	KEY idx_wotd_entries_word (word)
) DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const selectEntries = `SELECT id, date, word, part_of_speech, definition, example_sentence,
	etymology, pronunciation, created_at, updated_at FROM wotd_entries`

// FindByDate returns the entry for date.
func (r *Repository) FindByDate(ctx context.Context, date entities.DateKey) (*entities.Entry, error) {
	var row entryRow
	err := r.db.GetContext(ctx, &row, selectEntries+" WHERE date = ?", date.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding entry: %w", err)
	}
	entry := row.toEntry()
	return &entry, nil
}

// FindInRange returns entries between start and end inclusive, oldest first.
func (r *Repository) FindInRange(ctx context.Context, start, end entities.DateKey) ([]entities.Entry, error) {
	var rows []entryRow
	err := r.db.SelectContext(ctx, &rows, selectEntries+" WHERE date BETWEEN ? AND ? ORDER BY date ASC",
		start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("finding entries in range: %w", err)
	}

	result := make([]entities.Entry, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntry())
	}
	return result, nil
}

// Create inserts the entry for date, returning entities.ErrConflict when the
// date is already taken.
func (r *Repository) Create(ctx context.Context, date entities.DateKey, fields entities.Fields) (*entities.Entry, error) {
	now := timeNow().UTC()
	entry := &entities.Entry{
		ID:        newID(),
		Date:      date,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wotd_entries (id, date, word, part_of_speech, definition, example_sentence,
			etymology, pronunciation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		date.String(),
		fields.Word,
		fields.PartOfSpeech,
		fields.Definition,
		fields.ExampleSentence,
		fields.Etymology,
		sql.NullString{String: fields.Pronunciation, Valid: fields.Pronunciation != ""},
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry {
			return nil, fmt.Errorf("entry for %s: %w", date, entities.ErrConflict)
		}
		return nil, fmt.Errorf("inserting entry: %w", err)
	}
	return entry, nil
}
