// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"strconv"

	"github.com/gnames/gnvariants/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnvariants_test"
)

// GetTestConfig returns a configuration suitable for PostgreSQL
// integration tests. Connection settings can be changed with
// GNVARIANTS_DATABASE_* environment variables, the database name is
// always TestDatabaseName.
func GetTestConfig() *config.Config {
	var opts []config.Option
	if v := os.Getenv("GNVARIANTS_DATABASE_HOST"); v != "" {
		opts = append(opts, config.OptDatabaseHost(v))
	}
	if v := os.Getenv("GNVARIANTS_DATABASE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if v := os.Getenv("GNVARIANTS_DATABASE_USER"); v != "" {
		opts = append(opts, config.OptDatabaseUser(v))
	}
	if v := os.Getenv("GNVARIANTS_DATABASE_PASSWORD"); v != "" {
		opts = append(opts, config.OptDatabasePassword(v))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg := config.New()
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SQLiteConfig returns a configuration that keeps the database, the blob
// cache and the fail directory under dir.
func SQLiteConfig(dir string) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(dir),
		config.OptDatabaseDriver("sqlite"),
		config.OptCacheDriver("fs"),
		config.OptJobsNumber(2),
		config.OptImportBand(16),
	})
	cfg.Database.Path = cfg.SQLitePath()
	return cfg
}
