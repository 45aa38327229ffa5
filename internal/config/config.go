// Package config holds marie's user configuration, persisted as JSON in
// the ~/.marie data directory and overridable through environment
// variables (a .env file is honored when present).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// LoggingConfig mirrors internal/logging's expectations in config.json.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Level      string          `json:"level,omitempty"`
	Categories map[string]bool `json:"categories,omitempty"`
}

// Config is the single source of truth read from .marie/config.json.
type Config struct {
	// Provider selection: "gemini" or "ollama". Empty means auto-detect
	// (gemini when a key is configured, ollama otherwise).
	Provider string `json:"provider,omitempty"`

	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	GeminiModel  string `json:"gemini_model,omitempty"`

	OllamaBaseURL string `json:"ollama_base_url,omitempty"`
	OllamaModel   string `json:"ollama_model,omitempty"`

	// DefaultProject preselects a catalog entry for chat and ask.
	DefaultProject string `json:"default_project,omitempty"`

	// SandboxTimeoutSeconds bounds one generated-program run.
	SandboxTimeoutSeconds int `json:"sandbox_timeout_seconds,omitempty"`

	Logging LoggingConfig `json:"logging"`
}

// DataDir returns the marie data directory (~/.marie), creating it if
// needed. MARIE_HOME overrides the location, which the tests rely on.
func DataDir() (string, error) {
	if dir := os.Getenv("MARIE_HOME"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create data dir: %w", err)
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".marie")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	return dir, nil
}

// Path returns the config file location inside the data directory.
func Path() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file, applies environment overrides, and fills
// defaults. A missing file yields a default config, not an error.
// A .env file in the working directory is loaded first, if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: defaults plus env.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config file with restrictive permissions (it may hold an
// API key).
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MARIE_PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		c.OllamaBaseURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		c.OllamaModel = v
	}
	if v := os.Getenv("MARIE_PROJECT"); v != "" {
		c.DefaultProject = v
	}
}

func (c *Config) applyDefaults() {
	if c.SandboxTimeoutSeconds <= 0 {
		c.SandboxTimeoutSeconds = 30
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
