package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "/mcp", cfg.Server.Path)
	assert.False(t, cfg.Logging.Debug)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2, cfg.Retry.InitialBackoffSec)
	assert.Equal(t, 30, cfg.Retry.MaxBackoffSec)
	assert.Equal(t, 2, cfg.Retry.BackoffMultiplier)
	assert.Empty(t, cfg.Alpaca.APIKey)
	assert.NotEmpty(t, cfg.Alpaca.BaseURL)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
logging:
  debug: true
retry:
  max_attempts: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "/mcp", cfg.Server.Path, "unset keys keep their defaults")
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestLoadLegacyEnvironment(t *testing.T) {
	t.Setenv("DEBUG_LOGGING", "true")
	t.Setenv("ALPACA_API_KEY", "legacy-key")
	t.Setenv("ALPACA_API_SECRET", "legacy-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Logging.Debug)
	assert.Equal(t, "legacy-key", cfg.Alpaca.APIKey)
	assert.Equal(t, "legacy-secret", cfg.Alpaca.APISecret)
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes", " Yes "} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "off"} {
		assert.False(t, isTruthy(v), v)
	}
}
