package config

import (
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the relational store driver.
// Valid values: "postgres", "sqlite".
func OptDatabaseDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "postgresql" || s == "pg" {
		s = "postgres"
	}
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabasePath sets the SQLite database file.
func OptDatabasePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Path", s) {
			c.Database.Path = s
		}
	}
}

// OptDatabaseBatchSize sets the number of variant rows per INSERT statement.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptCacheDriver sets the blob store used by the import cache.
// Valid values: "fs", "s3", "memory".
func OptCacheDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Cache.Driver", s) {
			c.Cache.Driver = s
		}
	}
}

// OptCacheDir sets the root directory of the file system cache.
func OptCacheDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Dir", s) {
			c.Cache.Dir = s
		}
	}
}

func OptCacheBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Bucket", s) {
			c.Cache.Bucket = s
		}
	}
}

func OptCacheRegion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Region", s) {
			c.Cache.Region = s
		}
	}
}

func OptCacheEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Endpoint", s) {
			c.Cache.Endpoint = s
		}
	}
}

// OptCacheCredentials sets static S3 credentials. Both keys are required.
func OptCacheCredentials(access, secret string) Option {
	access = strings.TrimSpace(access)
	secret = strings.TrimSpace(secret)
	return func(c *Config) {
		if isValidString("Cache Access Key", access) &&
			isValidString("Cache Secret Key", secret) {
			c.Cache.AccessKey = access
			c.Cache.SecretKey = secret
		}
	}
}

func OptCachePathStyle(b bool) Option {
	return func(c *Config) {
		c.Cache.PathStyle = b
	}
}

// OptCacheFanOut sets how many characters of a hash form the directory
// prefix. Valid values are from 1 to 4.
func OptCacheFanOut(i int) Option {
	return func(c *Config) {
		if !isValidInt("Cache FanOut", i) {
			return
		}
		if i > 4 {
			gn.Warn("<em>Cache FanOut</em> cannot exceed 4, ignoring %d", i)
			return
		}
		c.Cache.FanOut = i
	}
}

// OptImportIgnoreErrors allows to skip samples whose reference molecule
// cannot be resolved.
func OptImportIgnoreErrors(b bool) Option {
	return func(c *Config) {
		c.Import.IgnoreErrors = b
	}
}

// OptImportParanoid toggles the round-trip consistency check.
func OptImportParanoid(b bool) Option {
	return func(c *Config) {
		c.Import.Paranoid = b
	}
}

// OptImportFailDir sets the directory for sequences of failed samples.
func OptImportFailDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Import FailDir", s) {
			c.Import.FailDir = s
		}
	}
}

// OptImportBand sets the minimal alignment band half-width.
func OptImportBand(i int) Option {
	return func(c *Config) {
		if isValidInt("Import Band", i) {
			c.Import.Band = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent aligner workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
