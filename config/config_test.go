package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilTeam/basil/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 50, cfg.Perf.MaxDepth)
	assert.Equal(t, 50, cfg.Perf.MaxCount)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basil.toml")
	require.NoError(t, os.WriteFile(path, []byte("[perf]\nmax_depth = 10\nmax_count = 0\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Perf.MaxDepth)
	assert.Equal(t, 50, cfg.Perf.MaxCount)
}
