// Package config loads editor configuration and persisted state.
//
// The config file is TOML; defaults apply for every missing field and a
// malformed file degrades to defaults. Small bits of editor state (last
// opened file, last backend) persist as JSON patched in place.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds user-facing editor settings.
type Config struct {
	// Backend selects the AI provider: anthropic, openai, gemini, ollama.
	Backend string `toml:"backend"`

	// Model is the backend-specific model name. Empty uses the
	// backend's default.
	Model string `toml:"model"`

	// APIKey authenticates against the backend. Environment variables
	// take precedence.
	APIKey string `toml:"api_key"`

	// OllamaURL overrides the local Ollama server address.
	OllamaURL string `toml:"ollama_url"`

	// SystemPrompt overrides the default system prompt.
	SystemPrompt string `toml:"system_prompt"`

	// TabWidth is the tab stop width used by the renderer.
	TabWidth int `toml:"tab_width"`

	// Theme names the highlight color theme.
	Theme string `toml:"theme"`

	// LogLevel sets logging verbosity: debug, info, warn, error, off.
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend:  "ollama",
		TabWidth: 4,
		Theme:    "default",
		LogLevel: "off",
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rusty-ai", "config.toml")
}

// Load reads the config file at path, applying defaults for missing
// fields. A missing file returns defaults silently; a malformed file
// returns defaults with the parse error for the caller to log.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := Default()
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.TabWidth <= 0 {
		c.TabWidth = def.TabWidth
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Save writes the config as TOML, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
