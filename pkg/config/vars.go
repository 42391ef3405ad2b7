package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnvariants"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnvariants by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnvariants by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnvariants/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnvariants/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// BlobDir returns the root of the file system artifact cache.
func (c *Config) BlobDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return filepath.Join(CacheDir(c.HomeDir), "blobs")
}

// FailDir returns the directory for sequences of samples that failed
// the consistency check.
func (c *Config) FailDir() string {
	if c.Import.FailDir != "" {
		return c.Import.FailDir
	}
	return filepath.Join(CacheDir(c.HomeDir), "failed")
}

// SQLitePath returns the SQLite database file.
func (c *Config) SQLitePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(CacheDir(c.HomeDir), AppName+".sqlite")
}
