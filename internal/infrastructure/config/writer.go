package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Word of the Day configuration

llm:
  provider: openai
  model: gpt-5-nano
  timeout: 60s
  # api_key: your-api-key (or set OPENAI_API_KEY env var)
  # base_url: https://api.openai.com/v1

generation:
  # Day boundaries are computed in this zone.
  timezone: Europe/London
  avoidance_window_days: 60
  field_bounds:
    word: {min: 3, max: 15}
    part_of_speech: {min: 3, max: 12}
    definition: {min: 15, max: 120}
    example_sentence: {min: 20, max: 200}
    etymology: {min: 15, max: 180}
    pronunciation: {min: 0, max: 128}

database:
  driver: sqlite
  sqlite:
    path: .wotd/wotd.db
  # mysql:
  #   host: localhost
  #   port: 3306
  #   username: wotd
  #   database: wotd
  #   (password via WOTD_MYSQL_PASSWORD env var)

server:
  addr: ":8080"

log:
  level: info
  format: text
`

// WriteDefault creates the .wotd directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file. Secrets are not written.
func Write(basePath string, cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(basePath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	out := *cfg
	out.LLM.APIKey = ""
	out.Database.MySQL.Password = ""

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
