package ioconfig_test

import (
	"os"
	"testing"

	"github.com/gnames/gnvariants/internal/ioconfig"
	"github.com/gnames/gnvariants/internal/iofs"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t, iofs.EnsureConfigFile(home))

	cfg, err := ioconfig.Load(home)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.HomeDir)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "fs", cfg.Cache.Driver)
	assert.True(t, cfg.Import.Paranoid)
	assert.Equal(t, 64, cfg.Import.Band)
	assert.Positive(t, cfg.JobsNumber)
}

func TestLoadEnv(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	require.NoError(t, iofs.EnsureConfigFile(home))

	t.Setenv("GNVARIANTS_DATABASE_DRIVER", "sqlite")
	t.Setenv("GNVARIANTS_CACHE_DRIVER", "memory")
	t.Setenv("GNVARIANTS_IMPORT_PARANOID", "false")
	t.Setenv("GNVARIANTS_IMPORT_BAND", "16")
	t.Setenv("GNVARIANTS_JOBS_NUMBER", "3")

	cfg, err := ioconfig.Load(home)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.False(t, cfg.Import.Paranoid)
	assert.Equal(t, 16, cfg.Import.Band)
	assert.Equal(t, 3, cfg.JobsNumber)
}

func TestLoadFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, iofs.EnsureDirs(home))
	yml := `database:
  driver: sqlite
  path: /tmp/x.sqlite
cache:
  driver: s3
  bucket: variants
import:
  paranoid: true
  ignore_errors: true
`
	err := os.WriteFile(config.ConfigFilePath(home), []byte(yml), 0644)
	require.NoError(t, err)

	cfg, err := ioconfig.Load(home)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.sqlite", cfg.SQLitePath())
	assert.Equal(t, "s3", cfg.Cache.Driver)
	assert.Equal(t, "variants", cfg.Cache.Bucket)
	assert.True(t, cfg.Import.IgnoreErrors)
	// missing values keep defaults
	assert.Equal(t, 64, cfg.Import.Band)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoadMissing(t *testing.T) {
	_, err := ioconfig.Load(t.TempDir())
	assert.Error(t, err)
}
