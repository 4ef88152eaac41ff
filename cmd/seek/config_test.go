package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/seek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := resolveConfig("", overrides{}, overrides{})
	require.NoError(t, err)
	assert.Equal(t, seek.DefaultConfig(), cfg)
}

func TestResolveConfig_EnvOverridesFile(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "seek.yaml", "api_url: http://file:8000\nlog:\n  level: warn\n")
	cfg, err := resolveConfig(path, overrides{}, overrides{apiURL: "http://env:8000"})
	require.NoError(t, err)
	assert.Equal(t, "http://env:8000", cfg.APIURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestResolveConfig_FlagOverridesEnv(t *testing.T) {
	t.Parallel()
	cfg, err := resolveConfig("",
		overrides{apiURL: "http://flag:8000", logLevel: "debug"},
		overrides{apiURL: "http://env:8000", logLevel: "error"},
	)
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8000", cfg.APIURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestResolveConfig_LogFlags(t *testing.T) {
	t.Parallel()
	cfg, err := resolveConfig("", overrides{logFormat: "json", logFile: "/tmp/seek.log"}, overrides{})
	require.NoError(t, err)
	assert.Equal(t, seek.LogConfig{Level: "info", Format: "json", File: "/tmp/seek.log"}, cfg.Log)
}

func TestResolveConfig_TOML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "seek.toml", "max_sources = 2\n")
	cfg, err := resolveConfig(path, overrides{}, overrides{})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxSources)
}

func TestResolveConfig_YMLExtension(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "seek.YML", "greeting: Hello.\n")
	cfg, err := resolveConfig(path, overrides{}, overrides{})
	require.NoError(t, err)
	assert.Equal(t, "Hello.", cfg.Greeting)
}

func TestResolveConfig_UnsupportedExtension(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "seek.json", "{}")
	_, err := resolveConfig(path, overrides{}, overrides{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file extension")
}

func TestResolveConfig_InvalidOverride(t *testing.T) {
	t.Parallel()
	_, err := resolveConfig("", overrides{apiURL: "localhost:8000"}, overrides{})
	assert.ErrorIs(t, err, seek.ErrValidation)

	_, err = resolveConfig("", overrides{}, overrides{logLevel: "loud"})
	assert.ErrorIs(t, err, seek.ErrValidation)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
