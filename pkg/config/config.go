// Package config provides configuration management for GNvariants.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, host, port, user, password, database, ssl_mode,
//     path, batch_size
//   - Cache: driver, dir, bucket, region, endpoint, path_style, fanout
//   - Import: ignore_errors, paranoid, fail_dir, band
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNVARIANTS_ prefix with underscores for nesting:
//
//	GNVARIANTS_DATABASE_DRIVER=sqlite
//	GNVARIANTS_DATABASE_HOST=localhost
//	GNVARIANTS_CACHE_DRIVER=s3
//	GNVARIANTS_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GNvariants configuration.
type Config struct {
	// Database contains relational store connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Cache contains settings of the content-addressed import cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	// Import contains settings used by the import command.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent aligner workers.
	// Default value is set accoring to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains relational store connection parameters.
type DatabaseConfig struct {
	// Driver selects the relational store: "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// Path is the SQLite database file. When empty, the file is created
	// in the cache directory.
	Path string `mapstructure:"path" yaml:"path"`

	// BatchSize is the number of variant rows sent in one multi-row INSERT.
	// SQLite limits the number of bound parameters, keep it below 3000.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// CacheConfig describes where import artifacts are stored.
type CacheConfig struct {
	// Driver is one of "fs", "s3", "memory".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Dir is the root of the file system cache. When empty, the default
	// cache directory is used.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// Region is the S3 region.
	Region string `mapstructure:"region" yaml:"region"`

	// Endpoint is a custom S3 endpoint (MinIO etc).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// AccessKey and SecretKey are static S3 credentials. When empty, the
	// default AWS credential chain is used.
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`

	// PathStyle forces path-style S3 addressing, required by MinIO.
	PathStyle bool `mapstructure:"path_style" yaml:"path_style"`

	// FanOut is the number of hash characters used as a directory prefix.
	FanOut int `mapstructure:"fanout" yaml:"fanout"`
}

// ImportConfig contains settings of the import pipeline.
type ImportConfig struct {
	// IgnoreErrors allows to skip samples with unresolvable reference
	// instead of aborting the whole run.
	IgnoreErrors bool `mapstructure:"ignore_errors" yaml:"ignore_errors"`

	// Paranoid enables the round-trip consistency check after every
	// imported sample.
	Paranoid bool `mapstructure:"paranoid" yaml:"paranoid"`

	// FailDir receives reconstructed and original sequences of samples
	// that failed the consistency check. When empty, a directory
	// inside the cache directory is used.
	FailDir string `mapstructure:"fail_dir" yaml:"fail_dir"`

	// Band is the minimal half-width of the alignment band around the main
	// diagonal. The band is widened by the length difference of sequences.
	Band int `mapstructure:"band" yaml:"band"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:    "postgres",
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnvariants",
			SSLMode:   "disable",
			BatchSize: 1000,
		},
		Cache: CacheConfig{
			Driver: "fs",
			Region: "us-east-1",
			FanOut: 2,
		},
		Import: ImportConfig{
			Paranoid: true,
			Band:     64,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
