package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnvariants/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestEnsureDirs_CreatesDirectories verifies all required
// directories are created.
func TestEnsureDirs_CreatesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	err := EnsureDirs(tmpDir)
	require.NoError(t, err)

	for _, dir := range []string{
		filepath.Join(tmpDir, ".config", "gnvariants"),
		filepath.Join(tmpDir, ".cache", "gnvariants"),
		filepath.Join(tmpDir, ".local", "share", "gnvariants", "logs"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), dir)
	}

	// idempotent
	require.NoError(t, EnsureDirs(tmpDir))
}

func TestTouchDirError(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	err := TouchDir(filepath.Join(file, "sub"))
	assert.Error(t, err)
}

// TestEnsureConfigFile verifies the embedded config is written once
// and is a valid configuration.
func TestEnsureConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))
	require.NoError(t, EnsureConfigFile(tmpDir))

	path := config.ConfigFilePath(tmpDir)
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(bs))

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal(bs, &cfg))
	def := config.New()
	assert.Equal(t, def.Database.Driver, cfg.Database.Driver)
	assert.Equal(t, def.Database.BatchSize, cfg.Database.BatchSize)
	assert.Equal(t, def.Cache.FanOut, cfg.Cache.FanOut)
	assert.Equal(t, def.Import.Band, cfg.Import.Band)
	assert.True(t, cfg.Import.Paranoid)

	// existing file is kept
	require.NoError(t, os.WriteFile(path, []byte("log: {}\n"), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))
	bs, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log: {}\n", string(bs))
}
