package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgraziolaVU/Yeonni1MB/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileWithOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9100
  mode: debug
fit:
  default_model: voigt
  max_sites: 3
interpreter:
  timeout: 5s
storage:
  backend: disk
  dir: /tmp/reports
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "voigt", cfg.Fit.DefaultModel)
	assert.Equal(t, 3, cfg.Fit.MaxSites)
	assert.Equal(t, 5*time.Second, cfg.Interpreter.Timeout)
	// Unset fields fall back to defaults.
	assert.Equal(t, config.DefaultMaxIterations, cfg.Fit.MaxIterations)
	assert.Equal(t, config.DefaultInterpreterModel, cfg.Interpreter.Model)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 70000
`)
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultFitModel, cfg.Fit.DefaultModel)
	assert.Equal(t, config.DefaultStorageBackend, cfg.Storage.Backend)
}

func TestLoadFromEnv_EnvOverride(t *testing.T) {
	t.Setenv("MOSS_SERVER_PORT", "9200")
	t.Setenv("MOSS_FIT_DEFAULT_MODEL", "pseudo_voigt")

	cfg, err := config.LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, "pseudo_voigt", cfg.Fit.DefaultModel)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { config.MustLoad("/nonexistent/config.yaml") })
}
