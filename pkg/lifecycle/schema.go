package lifecycle

import (
	"context"

	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/reference"
)

// SchemaManager defines the interface for database schema management and
// the reference data loaded once at setup. All methods are idempotent,
// safe to run multiple times.
type SchemaManager interface {
	// Create creates tables and indexes. PostgreSQL uses GORM
	// AutoMigrate, SQLite uses generated DDL.
	Create(ctx context.Context) error

	// Setup stores references, property declarations and lineages.
	// Already stored references and properties are kept as they are.
	Setup(
		ctx context.Context,
		refs []*reference.Reference,
		props []*property.Property,
		lineages []property.Lineage,
	) error

	// Catalog reads stored references back.
	Catalog(ctx context.Context) (*reference.Catalog, error)

	// Properties reads the stored property schema and lineage index.
	Properties(ctx context.Context) (*property.Schema, *property.Lineages, error)
}
