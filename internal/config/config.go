// Package config holds BAZINGA configuration: the ~/.bazinga home layout and
// the config.json settings file, with BAZINGA_* environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config is the single source of truth for settings, read from
// ~/.bazinga/config.json. Every field has a sensible zero-config default;
// a missing file is not an error.
type Config struct {
	// Engine settings
	CycleSeconds int `json:"cycle_seconds,omitempty" env:"BAZINGA_CYCLE_SECONDS"`
	ThoughtCap   int `json:"thought_cap,omitempty" env:"BAZINGA_THOUGHT_CAP"`

	// Knowledge / oracle settings
	EmbeddingEngine string `json:"embedding_engine,omitempty" env:"BAZINGA_EMBEDDING_ENGINE"` // hash, ollama, gemini
	OllamaEndpoint  string `json:"ollama_endpoint,omitempty" env:"BAZINGA_OLLAMA_ENDPOINT"`
	OllamaModel     string `json:"ollama_model,omitempty" env:"BAZINGA_OLLAMA_MODEL"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty" env:"GEMINI_API_KEY"`
	GeminiModel     string `json:"gemini_model,omitempty" env:"BAZINGA_GEMINI_MODEL"`

	// Dashboard settings
	DashboardAddr string `json:"dashboard_addr,omitempty" env:"BAZINGA_DASHBOARD_ADDR"`

	// Logging
	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig mirrors the block consumed by the logging package.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode" env:"BAZINGA_DEBUG"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty" env:"BAZINGA_LOG_LEVEL"`
}

// Subdirectories created under the bazinga home.
var homeLayout = []string{
	"states",
	"sessions",
	"artifacts",
	"reports",
	"logs",
}

// Default returns the zero-config defaults.
func Default() *Config {
	return &Config{
		CycleSeconds:    1,
		ThoughtCap:      100,
		EmbeddingEngine: "hash",
		OllamaEndpoint:  "http://localhost:11434",
		OllamaModel:     "embeddinggemma",
		GeminiModel:     "gemini-embedding-001",
		DashboardAddr:   "localhost:8137",
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Home resolves the bazinga home directory. Order: explicit override,
// BAZINGA_HOME, then ~/.bazinga.
func Home(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if envHome := os.Getenv("BAZINGA_HOME"); envHome != "" {
		return envHome, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".bazinga"), nil
}

// EnsureLayout creates the home directory tree.
func EnsureLayout(home string) error {
	for _, sub := range homeLayout {
		if err := os.MkdirAll(filepath.Join(home, sub), 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", sub, err)
		}
	}
	return nil
}

// Load reads config.json from the given home directory, fills defaults, and
// applies BAZINGA_* environment overrides on top.
func Load(home string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(home, "config.json")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the config back to config.json.
func (c *Config) Save(home string) error {
	if err := os.MkdirAll(home, 0755); err != nil {
		return fmt.Errorf("failed to create home: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(home, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// fillDefaults backfills zero values left by a sparse config file.
func (c *Config) fillDefaults() {
	d := Default()
	if c.CycleSeconds <= 0 {
		c.CycleSeconds = d.CycleSeconds
	}
	if c.ThoughtCap <= 0 {
		c.ThoughtCap = d.ThoughtCap
	}
	if c.EmbeddingEngine == "" {
		c.EmbeddingEngine = d.EmbeddingEngine
	}
	if c.OllamaEndpoint == "" {
		c.OllamaEndpoint = d.OllamaEndpoint
	}
	if c.OllamaModel == "" {
		c.OllamaModel = d.OllamaModel
	}
	if c.GeminiModel == "" {
		c.GeminiModel = d.GeminiModel
	}
	if c.DashboardAddr == "" {
		c.DashboardAddr = d.DashboardAddr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// StatesDir returns the state-save directory under home.
func StatesDir(home string) string { return filepath.Join(home, "states") }

// SessionsDir returns the session-save directory under home.
func SessionsDir(home string) string { return filepath.Join(home, "sessions") }

// ArtifactsDir returns the artifact storage directory under home.
func ArtifactsDir(home string) string { return filepath.Join(home, "artifacts") }

// ReportsDir returns the report output directory under home.
func ReportsDir(home string) string { return filepath.Join(home, "reports") }

// KnowledgeDB returns the knowledge store path under home.
func KnowledgeDB(home string) string { return filepath.Join(home, "knowledge.db") }

// ArtifactsDB returns the artifact catalog path under home.
func ArtifactsDB(home string) string { return filepath.Join(home, "artifacts.db") }
