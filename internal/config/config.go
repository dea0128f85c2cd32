// Package config handles wikiref configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the wikiref configuration.
type Config struct {
	// DSN is the sqlite database path.
	DSN string `toml:"dsn"`

	// Addr is the address the HTTP server listens on.
	Addr string `toml:"addr"`

	// SessionKey signs login cookies. It must be at least 32 characters.
	SessionKey string `toml:"session_key"`

	Log LogConfig `toml:"log"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Development switches to human-readable console output.
	Development bool `toml:"development"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DSN:  "wikiref.db",
		Addr: ":8080",
		Log:  LogConfig{Level: "info"},
	}
}

// Load loads the configuration from path. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WIKIREF_DSN"); v != "" {
		c.DSN = v
	}
	if v := os.Getenv("WIKIREF_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("WIKIREF_SESSION_KEY"); v != "" {
		c.SessionKey = v
	}
	if v := os.Getenv("WIKIREF_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the settings needed to serve HTTP.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return errors.New("dsn is required")
	}
	if len(c.SessionKey) < 32 {
		return errors.New("session_key must be at least 32 characters long")
	}
	return nil
}
