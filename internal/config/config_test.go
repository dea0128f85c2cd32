package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"WIKIREF_DSN", "WIKIREF_ADDR", "WIKIREF_SESSION_KEY", "WIKIREF_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "wikiref.toml")
	content := `
dsn = "/var/lib/wikiref.db"
session_key = "0123456789abcdef0123456789abcdef"

[log]
level = "debug"
development = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/wikiref.db", cfg.DSN)
	assert.Equal(t, ":8080", cfg.Addr, "unset keys keep their default")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("dsn = "), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WIKIREF_DSN", "env.db")
	t.Setenv("WIKIREF_ADDR", "127.0.0.1:9000")
	t.Setenv("WIKIREF_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.DSN)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_key")

	cfg.SessionKey = strings.Repeat("k", 32)
	assert.NoError(t, cfg.Validate())

	cfg.DSN = ""
	assert.Error(t, cfg.Validate())
}
