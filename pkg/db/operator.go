package db

import (
	"context"
	"database/sql"

	"github.com/gnames/gnvariants/pkg/config"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes a database/sql
// handle for high-level components (SchemaManager, Importer, Matcher) to
// execute their SQL. Both PostgreSQL and SQLite are reached through the
// same handle, statements differ only in placeholder format.
type Operator interface {
	// Connect establishes a connection to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection.
	Close() error

	// DB returns the database handle. It is nil before Connect.
	DB() *sql.DB

	// Driver returns "postgres" or "sqlite".
	Driver() string

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables.
	DropAllTables(ctx context.Context) error
}
