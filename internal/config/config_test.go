package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	v = newViper()
	t.Cleanup(func() { v = newViper() })
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	reset(t)
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "python", cfg.SecretSource)
	assert.Equal(t, 15*time.Second, cfg.SecretTimeout)
	assert.Equal(t, "django", cfg.DefaultFlavor)
	assert.True(t, cfg.History)
	assert.Equal(t, "3.13", cfg.PythonVersion)
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	reset(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pyscaffold.yaml"),
		[]byte("secret_source: rand\nsecret_timeout: 3s\nhistory: false\n"), 0644))
	t.Setenv("PYSCAFFOLD_DEFAULT_FLAVOR", "fastapi")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "rand", cfg.SecretSource)
	assert.Equal(t, 3*time.Second, cfg.SecretTimeout)
	assert.False(t, cfg.History)
	assert.Equal(t, "fastapi", cfg.DefaultFlavor)
}

func TestSetValidatesValues(t *testing.T) {
	reset(t)
	assert.NoError(t, Set(KeySecretSource, "rand"))
	assert.Equal(t, "rand", GetString(KeySecretSource))

	assert.Error(t, Set(KeySecretSource, "os"))
	assert.Error(t, Set(KeyDefaultFlavor, "flask"))
	assert.Error(t, Set(KeySecretTimeout, "soon"))
	assert.Error(t, Set(KeyHistory, "maybe"))
	assert.Error(t, Set("ai_backend", "x"))
}

func TestWriteToRoundTrips(t *testing.T) {
	reset(t)
	dir := t.TempDir()
	require.NoError(t, Set(KeyOutputDir, "/tmp/projects"))
	require.NoError(t, WriteTo(filepath.Join(dir, ".pyscaffold.yaml")))

	reset(t)
	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/projects", cfg.OutputDir)
}
