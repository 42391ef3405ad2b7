package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(host string, port int, database, user string, err error) error {
	msg := `Cannot connect to database <em>%s</em> at <em>%s:%d</em>

<em>Possible causes:</em>
  - Database server is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running: <em>pg_isready -h %s -p %d</em>
  2. Verify that user <em>%s</em> can access the database
  3. Check your configuration file:
     <em>~/.config/gnvariants/config.yaml</em>`

	vars := []any{database, host, port, host, port, user}
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// UnsupportedDriverError is returned for unknown database drivers.
func UnsupportedDriverError(driver string) error {
	msg := "Unsupported database driver <em>%s</em>, use postgres or sqlite"
	vars := []any{driver}
	return &gn.Error{
		Code: errcode.DBUnsupportedDriverError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported driver %q", driver),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError is returned when checking for tables fails.
func TableCheckError(err error) error {
	msg := "Could not verify database state"
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// QueryTablesError is returned when the list of tables cannot be read.
func QueryTablesError(err error) error {
	msg := "Cannot get the list of database tables"
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError is returned when a table name cannot be scanned.
func ScanTableError(err error) error {
	msg := "Cannot read the list of database tables"
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}

// EmptyDatabaseError is returned when the schema was not created yet.
func EmptyDatabaseError(database string) error {
	msg := `Database <em>%s</em> has no GNvariants tables

<em>How to fix:</em>
  Create the schema and load references first:
  <em>gnvariants create --reference reference.yaml</em>`

	vars := []any{database}
	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("database %s has no tables", database),
	}
}
