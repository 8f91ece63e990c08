package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, "./courtside-cache.db", cfg.CachePath)
	assert.Equal(t, 500, cfg.MaxRows)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "qwen3-vl:2b", cfg.Ollama.Model)
	assert.Equal(t, "localhost", cfg.Warehouse.Host)
	assert.Equal(t, 5432, cfg.Warehouse.Port)
	assert.Equal(t, "disable", cfg.Warehouse.SSLMode)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtside.yaml")
	content := `
port: "9000"
max_rows: 50
ollama:
  model: llama3
warehouse:
  host: db.internal
  dbname: nba
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 50, cfg.MaxRows)
	assert.Equal(t, "llama3", cfg.Ollama.Model)
	assert.Equal(t, "db.internal", cfg.Warehouse.Host)
	assert.Equal(t, "nba", cfg.Warehouse.DBName)
	// untouched keys keep their defaults
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 5432, cfg.Warehouse.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COURTSIDE_PORT", "8080")
	t.Setenv("COURTSIDE_OLLAMA__MODEL", "qwen3:8b")
	t.Setenv("COURTSIDE_WAREHOUSE__PASSWORD", "hunter2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "qwen3:8b", cfg.Ollama.Model)
	assert.Equal(t, "hunter2", cfg.Warehouse.Password)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courtside.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\n"), 0o644))
	t.Setenv("COURTSIDE_PORT", "7777")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
