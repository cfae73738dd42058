// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ersonp/wotd/internal/domain/entities"
)

const (
	// DefaultConfigDir is the directory name for wotd configuration.
	DefaultConfigDir = ".wotd"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "wotd.db"
)

// memoryPath selects an in-memory SQLite database; it is never resolved.
const memoryPath = ":memory:"

// Supported database drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds static infrastructure configuration (read-only after load).
type Config struct {
	LLM        LLMConfig        `mapstructure:"llm" yaml:"llm"`
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// LLMConfig holds configuration for the generative model provider.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider" validate:"oneof=openai"`
	Model    string        `mapstructure:"model" yaml:"model" validate:"required"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url,omitempty" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
}

// GenerationConfig controls how and when entries are generated.
type GenerationConfig struct {
	Timezone            string            `mapstructure:"timezone" yaml:"timezone" validate:"required,timezone"`
	AvoidanceWindowDays int               `mapstructure:"avoidance_window_days" yaml:"avoidance_window_days" validate:"gte=0"`
	FieldBounds         FieldBoundsConfig `mapstructure:"field_bounds" yaml:"field_bounds"`
}

// BoundsConfig is an inclusive length range.
type BoundsConfig struct {
	Min int `mapstructure:"min" yaml:"min" validate:"gte=0"`
	Max int `mapstructure:"max" yaml:"max" validate:"gte=1,gtefield=Min"`
}

// FieldBoundsConfig holds per-field length limits.
type FieldBoundsConfig struct {
	Word            BoundsConfig `mapstructure:"word" yaml:"word"`
	PartOfSpeech    BoundsConfig `mapstructure:"part_of_speech" yaml:"part_of_speech"`
	Definition      BoundsConfig `mapstructure:"definition" yaml:"definition"`
	ExampleSentence BoundsConfig `mapstructure:"example_sentence" yaml:"example_sentence"`
	Etymology       BoundsConfig `mapstructure:"etymology" yaml:"etymology"`
	Pronunciation   BoundsConfig `mapstructure:"pronunciation" yaml:"pronunciation"`
}

// DatabaseConfig selects and configures the entry store.
type DatabaseConfig struct {
	Driver string       `mapstructure:"driver" yaml:"driver" validate:"oneof=sqlite mysql"`
	SQLite SQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`
	MySQL  MySQLConfig  `mapstructure:"mysql" yaml:"mysql"`
}

// SQLiteConfig holds configuration for the SQLite relational database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database, or ":memory:".
	Path string `mapstructure:"path" yaml:"path"`
}

// MySQLConfig holds configuration for a MySQL server.
type MySQLConfig struct {
	Host            string            `mapstructure:"host" yaml:"host"`
	Port            int               `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Username        string            `mapstructure:"username" yaml:"username"`
	Password        string            `mapstructure:"password" yaml:"password,omitempty"`
	Database        string            `mapstructure:"database" yaml:"database"`
	TLS             bool              `mapstructure:"tls" yaml:"tls"`
	Params          map[string]string `mapstructure:"params" yaml:"params,omitempty"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime" validate:"gte=0"`
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// Default returns a Config with default values.
func Default() *Config {
	b := entities.DefaultFieldBounds()
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-5-nano",
			Timeout:  60 * time.Second,
		},
		Generation: GenerationConfig{
			Timezone:            "Europe/London",
			AvoidanceWindowDays: 60,
			FieldBounds: FieldBoundsConfig{
				Word:            BoundsConfig(b.Word),
				PartOfSpeech:    BoundsConfig(b.PartOfSpeech),
				Definition:      BoundsConfig(b.Definition),
				ExampleSentence: BoundsConfig(b.ExampleSentence),
				Etymology:       BoundsConfig(b.Etymology),
				Pronunciation:   BoundsConfig(b.Pronunciation),
			},
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			SQLite: SQLiteConfig{Path: filepath.Join(DefaultConfigDir, DefaultDatabaseFile)},
			MySQL: MySQLConfig{
				Host: "localhost",
				Port: 3306,
			},
		},
		Server: ServerConfig{Addr: ":8080"},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"llm.api_key":                      "OPENAI_API_KEY",
	"llm.model":                        "WOTD_MODEL",
	"llm.base_url":                     "WOTD_LLM_BASE_URL",
	"generation.timezone":              "WOTD_TIMEZONE",
	"generation.avoidance_window_days": "WOTD_AVOIDANCE_WINDOW_DAYS",
	"database.driver":                  "WOTD_DATABASE_DRIVER",
	"database.sqlite.path":             "WOTD_DATABASE_PATH",
	"database.mysql.host":              "WOTD_MYSQL_HOST",
	"database.mysql.password":          "WOTD_MYSQL_PASSWORD",
	"server.addr":                      "WOTD_ADDR",
	"log.level":                        "WOTD_LOG_LEVEL",
}

// Load reads configuration. configFile wins when set; otherwise
// <basePath>/.wotd/config.yaml is used if present. Missing files fall back to
// defaults. Environment variables override both.
func Load(basePath, configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}

	if configFile == "" && Exists(basePath) {
		configFile = ConfigFilePath(basePath)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("config file not found: %s", configFile)
			}
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.resolvePaths(workspaceRoot(basePath, configFile))

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", d.LLM.Timeout)

	v.SetDefault("generation.timezone", d.Generation.Timezone)
	v.SetDefault("generation.avoidance_window_days", d.Generation.AvoidanceWindowDays)
	fb := d.Generation.FieldBounds
	for name, b := range map[string]BoundsConfig{
		"word":             fb.Word,
		"part_of_speech":   fb.PartOfSpeech,
		"definition":       fb.Definition,
		"example_sentence": fb.ExampleSentence,
		"etymology":        fb.Etymology,
		"pronunciation":    fb.Pronunciation,
	} {
		v.SetDefault("generation.field_bounds."+name+".min", b.Min)
		v.SetDefault("generation.field_bounds."+name+".max", b.Max)
	}

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.sqlite.path", d.Database.SQLite.Path)
	v.SetDefault("database.mysql.host", d.Database.MySQL.Host)
	v.SetDefault("database.mysql.port", d.Database.MySQL.Port)
	v.SetDefault("database.mysql.username", "")
	v.SetDefault("database.mysql.password", "")
	v.SetDefault("database.mysql.database", "")

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Location loads the configured day-key timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Generation.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Generation.Timezone, err)
	}
	return loc, nil
}

// Bounds converts the configured limits into the domain definition.
func (c *Config) Bounds() entities.FieldBounds {
	fb := c.Generation.FieldBounds
	return entities.FieldBounds{
		Word:            entities.Bounds(fb.Word),
		PartOfSpeech:    entities.Bounds(fb.PartOfSpeech),
		Definition:      entities.Bounds(fb.Definition),
		ExampleSentence: entities.Bounds(fb.ExampleSentence),
		Etymology:       entities.Bounds(fb.Etymology),
		Pronunciation:   entities.Bounds(fb.Pronunciation),
	}
}

// workspaceRoot is the directory relative paths in the config refer to: the
// directory holding .wotd when a config file is in use, basePath otherwise.
func workspaceRoot(basePath, configFile string) string {
	if configFile == "" {
		return basePath
	}
	dir := filepath.Dir(configFile)
	if filepath.Base(dir) == DefaultConfigDir {
		return filepath.Dir(dir)
	}
	return dir
}

// resolvePaths anchors a relative SQLite path at root.
func (c *Config) resolvePaths(root string) {
	p := c.Database.SQLite.Path
	if root == "" || p == "" || p == memoryPath || filepath.IsAbs(p) {
		return
	}
	c.Database.SQLite.Path = filepath.Join(root, p)
}

// ConfigDir returns the path to the .wotd config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// Exists checks if a wotd config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
