package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.CycleSeconds)
	assert.Equal(t, 100, cfg.ThoughtCap)
	assert.Equal(t, "hash", cfg.EmbeddingEngine)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaEndpoint)
}

func TestLoadSparseFileBackfillsDefaults(t *testing.T) {
	home := t.TempDir()
	err := os.WriteFile(filepath.Join(home, "config.json"),
		[]byte(`{"embedding_engine": "ollama"}`), 0644)
	require.NoError(t, err)

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.EmbeddingEngine)
	assert.Equal(t, 100, cfg.ThoughtCap, "unset fields keep defaults")
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverridesWin(t *testing.T) {
	home := t.TempDir()
	err := os.WriteFile(filepath.Join(home, "config.json"),
		[]byte(`{"thought_cap": 50}`), 0644)
	require.NoError(t, err)

	t.Setenv("BAZINGA_THOUGHT_CAP", "25")
	t.Setenv("BAZINGA_EMBEDDING_ENGINE", "gemini")

	cfg, err := Load(home)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.ThoughtCap)
	assert.Equal(t, "gemini", cfg.EmbeddingEngine)
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()

	cfg := Default()
	cfg.DashboardAddr = "localhost:9999"
	cfg.Logging.DebugMode = true
	require.NoError(t, cfg.Save(home))

	loaded, err := Load(home)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9999", loaded.DashboardAddr)
	assert.True(t, loaded.Logging.DebugMode)
}

func TestHomeResolution(t *testing.T) {
	got, err := Home("/tmp/explicit")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/explicit", got)

	t.Setenv("BAZINGA_HOME", "/tmp/from-env")
	got, err = Home("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", got)
}

func TestEnsureLayout(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureLayout(home))

	for _, sub := range []string{"states", "sessions", "artifacts", "reports", "logs"} {
		info, err := os.Stat(filepath.Join(home, sub))
		require.NoError(t, err, "missing %s", sub)
		assert.True(t, info.IsDir())
	}
}
