package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFlagsWin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("log_level: warn\n"), 0o644))
	t.Setenv("AEROFAB_DATA_DIR", "")
	t.Setenv("AEROFAB_LOG_LEVEL", "error")

	cfg, err := Load(dir, "debug")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel, "flags override file and env")
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("log_level: warn\n"), 0o644))
	t.Setenv("AEROFAB_DATA_DIR", "")
	t.Setenv("AEROFAB_LOG_LEVEL", "")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("log_level: warn\n"), 0o644))
	t.Setenv("AEROFAB_DATA_DIR", "")
	t.Setenv("AEROFAB_LOG_LEVEL", "error")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadEnvDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AEROFAB_DATA_DIR", dir)
	t.Setenv("AEROFAB_LOG_LEVEL", "")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
}

// TestLoadMalformedConfigFile pins the asymmetry with the state files:
// config.yaml is user-authored, so a broken one is an error, not an
// empty default.
func TestLoadMalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte(":: not yaml ::"), 0o644))
	t.Setenv("AEROFAB_DATA_DIR", "")
	t.Setenv("AEROFAB_LOG_LEVEL", "")

	_, err := Load(dir, "")
	assert.Error(t, err)
}

func TestLoadMissingConfigFileIsFine(t *testing.T) {
	t.Setenv("AEROFAB_DATA_DIR", "")
	t.Setenv("AEROFAB_LOG_LEVEL", "")

	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}
