package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// NotConnectedError creates an error for when schema
// operation is attempted without database connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError creates an error for GORM
// connection failures.
func GORMConnectionError(err error) error {
	msg := `Cannot connect to database with GORM

<em>How to fix:</em>
  1. Ensure database operator is connected
  2. Check database configuration`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError creates an error for schema
// creation failures.
func CreateSchemaError(err error) error {
	msg := `Cannot create database schema

<em>Possible causes:</em>
  - Insufficient database permissions
  - Tables exist with incompatible definitions

<em>How to fix:</em>
  1. Check database user has CREATE permissions
  2. Check database logs for details`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

// MigrateSchemaError creates an error for failures of GORM
// AutoMigrate.
func MigrateSchemaError(err error) error {
	msg := `Cannot migrate database schema

<em>How to fix:</em>
  1. Check database user permissions
  2. Backup data and recreate the schema`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}

// LoadError is returned when reference data cannot be stored.
func LoadError(what string, err error) error {
	msg := "Cannot store <em>%s</em>"
	vars := []any{what}

	return &gn.Error{
		Code: errcode.SchemaReferenceLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to store %s: %w", what, err),
	}
}

// CatalogReadError is returned when reference data cannot be read from
// the database.
func CatalogReadError(what string, err error) error {
	msg := "Cannot read <em>%s</em> from database"
	vars := []any{what}

	return &gn.Error{
		Code: errcode.SchemaCatalogReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read %s: %w", what, err),
	}
}
