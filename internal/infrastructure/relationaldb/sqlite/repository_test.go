package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureSchema(context.Background())
	require.NoError(t, err)

	return repo
}

func fieldsFor(word string) entities.Fields {
	return entities.Fields{
		Word:            word,
		PartOfSpeech:    "adjective",
		Definition:      "Lasting for a very short time.",
		ExampleSentence: "The beauty of cherry blossoms is " + word + ".",
		Etymology:       "From Greek ephemeros, meaning lasting only a day.",
	}
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.Equal(t, ":memory:", repo.Path())
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo := setupTestRepo(t)

	for _, name := range []string{"wotd_entries", "idx_wotd_entries_word"} {
		var count int
		err := repo.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "%s should exist", name)
	}

	// Should not error when called again
	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	fixed := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	origTimeNow := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = origTimeNow })

	fields := fieldsFor("ephemeral")
	fields.Pronunciation = "ih-FEM-er-ul"

	created, err := repo.Create(ctx, "2025-01-01", fields)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, entities.DateKey("2025-01-01"), created.Date)

	found, err := repo.FindByDate(ctx, "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, fields, found.Fields)
	assert.True(t, fixed.Equal(found.CreatedAt), "created_at %v", found.CreatedAt)
	assert.True(t, fixed.Equal(found.UpdatedAt), "updated_at %v", found.UpdatedAt)
}

func TestRepository_NullPronunciation(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "2025-01-02", fieldsFor("lugubrious"))
	require.NoError(t, err)

	var isNull bool
	err = repo.db.QueryRow(`SELECT pronunciation IS NULL FROM wotd_entries WHERE date = ?`, "2025-01-02").Scan(&isNull)
	require.NoError(t, err)
	assert.True(t, isNull)

	found, err := repo.FindByDate(ctx, "2025-01-02")
	require.NoError(t, err)
	assert.Empty(t, found.Pronunciation)
}

func TestRepository_FindByDate_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	entry, err := repo.FindByDate(context.Background(), "2025-01-01")
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_Create_Conflict(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, "2025-01-01", fieldsFor("ephemeral"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, "2025-01-01", fieldsFor("petrichor"))
	assert.ErrorIs(t, err, entities.ErrConflict)

	found, err := repo.FindByDate(ctx, "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "ephemeral", found.Word, "existing row must not be overwritten")
}

func TestRepository_FindInRange(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for date, word := range map[entities.DateKey]string{
		"2024-12-31": "antediluvian",
		"2025-01-01": "ephemeral",
		"2025-01-15": "lugubrious",
		"2025-02-01": "petrichor",
	} {
		_, err := repo.Create(ctx, date, fieldsFor(word))
		require.NoError(t, err)
	}

	tests := []struct {
		name       string
		start, end entities.DateKey
		want       []string
	}{
		{name: "single day", start: "2025-01-01", end: "2025-01-01", want: []string{"ephemeral"}},
		{name: "inclusive bounds ordered", start: "2024-12-31", end: "2025-01-15", want: []string{"antediluvian", "ephemeral", "lugubrious"}},
		{name: "empty range", start: "2025-03-01", end: "2025-03-31", want: []string{}},
		{name: "inverted range", start: "2025-02-01", end: "2025-01-01", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindInRange(ctx, tt.start, tt.end)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, entities.Words(got))
		})
	}
}

func TestRepository_ConcurrentCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wotd.db")
	repo, err := NewRepository(config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))

	const writers = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), "2025-01-01", fieldsFor([]string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}[i]))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case assert.ErrorIs(t, err, entities.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, conflicts)

	entries, err := repo.FindInRange(context.Background(), "2025-01-01", "2025-01-01")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
