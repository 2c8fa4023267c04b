package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDB, EnvLogLevel, EnvThreshold} {
		t.Setenv(key, "")
	}
}

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config/lexcov", dir)
}

func TestDir_DefaultsToHomeConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := Dir()
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "lexcov"), dir)
}

func TestLoad_MissingFilesReturnDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoad(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "lexcov")

	c1 := Default()
	c1.Threshold = 150
	c1.Budget = 0
	c1.Workers = 2
	c1.DBPath = "/tmp/lexcov.db"
	require.NoError(t, Save(dir, c1))

	c2, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestSave_Validation(t *testing.T) {
	assert.Error(t, Save("", Default()))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("threshold: 42\n"), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Threshold)
	assert.Equal(t, Default().Workers, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("threshold: [oops\n"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvFileOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("threshold: 42\nlog_level: warn\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEXCOV_THRESHOLD=77\nLEXCOV_DB=/data/env.db\n"), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Threshold)
	assert.Equal(t, "/data/env.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEXCOV_LOG_LEVEL=warn\n"), 0600))
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvThreshold, "many")

	_, err := Load(t.TempDir())
	assert.Error(t, err)
}
