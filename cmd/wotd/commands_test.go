package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/wotd/internal/domain/entities"
	"github.com/ersonp/wotd/internal/infrastructure/config"
)

// resetGlobals clears flag state shared between command runs.
func resetGlobals(t *testing.T) {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() {
		globalConfig, globalVerbose, globalJSON = "", false, false
		color.NoColor = false
	})
	for _, env := range []string{
		"OPENAI_API_KEY", "WOTD_MODEL", "WOTD_LLM_BASE_URL", "WOTD_TIMEZONE",
		"WOTD_DATABASE_DRIVER", "WOTD_DATABASE_PATH", "WOTD_MYSQL_HOST", "WOTD_MYSQL_PASSWORD",
		"WOTD_ADDR", "WOTD_LOG_LEVEL", "WOTD_AVOIDANCE_WINDOW_DAYS",
	} {
		t.Setenv(env, "")
	}
}

// workspace writes a config pointing at a temp SQLite file.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "database:\n  driver: sqlite\n  sqlite:\n    path: " + filepath.Join(dir, "wotd.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))
	return cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wotd initialized successfully!")
	assert.True(t, config.Exists(dir))
	assert.FileExists(t, filepath.Join(dir, ".wotd", "wotd.db"))

	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestTodayCommand_NothingYet(t *testing.T) {
	resetGlobals(t)
	cfgPath := workspace(t)

	out, err := execute(t, "--config", cfgPath, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "No word generated yet")
}

func TestRecentCommand_Empty(t *testing.T) {
	resetGlobals(t)
	cfgPath := workspace(t)

	out, err := execute(t, "--config", cfgPath, "recent", "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "No words in the last 3 days.")
}

func TestShowCommand(t *testing.T) {
	resetGlobals(t)
	cfgPath := workspace(t)

	tests := []struct {
		name    string
		date    string
		wantErr error
	}{
		{name: "missing entry", date: "2025-01-01", wantErr: errNoEntry},
		{name: "malformed date", date: "01-01-2025", wantErr: entities.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "--config", cfgPath, "show", tt.date)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerateCommand_RequiresAPIKey(t *testing.T) {
	resetGlobals(t)
	cfgPath := workspace(t)

	_, err := execute(t, "--config", cfgPath, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestTodayCommand_DatabaseNextToConfig(t *testing.T) {
	resetGlobals(t)
	elsewhere := t.TempDir()
	require.NoError(t, config.WriteDefault(elsewhere))
	t.Chdir(t.TempDir())

	_, err := execute(t, "--config", config.ConfigFilePath(elsewhere), "today")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(elsewhere, ".wotd", "wotd.db"))
	assert.NoFileExists(t, filepath.Join(".wotd", "wotd.db"))
}

func TestGenerateCommand_NegativeRetries(t *testing.T) {
	resetGlobals(t)

	_, err := execute(t, "generate", "--retries", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--retries")
}
