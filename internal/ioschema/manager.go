// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate (PostgreSQL) and generated DDL (SQLite),
// and stores reference data.
package ioschema

import (
	"context"
	"database/sql"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/gnames/gnvariants/pkg/db"
	"github.com/gnames/gnvariants/pkg/lifecycle"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/query"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the lifecycle.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

func (m *manager) db() (*sql.DB, error) {
	if m.operator == nil || m.operator.DB() == nil {
		return nil, NotConnectedError()
	}
	return m.operator.DB(), nil
}

func (m *manager) placeholder() sq.PlaceholderFormat {
	return query.NewDialect(m.operator.Driver()).Placeholder()
}

// Create creates the database schema. PostgreSQL schema is created and
// updated by GORM AutoMigrate, SQLite receives generated DDL.
func (m *manager) Create(ctx context.Context) error {
	d, err := m.db()
	if err != nil {
		return err
	}

	if m.operator.Driver() == "postgres" {
		gormDB, err := gorm.Open(
			postgres.New(postgres.Config{Conn: d}),
			&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
		)
		if err != nil {
			return GORMConnectionError(err)
		}
		if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
			return MigrateSchemaError(err)
		}
		return nil
	}

	for _, stmt := range schema.DDL() {
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			return CreateSchemaError(err)
		}
	}
	return nil
}

// Setup stores references, properties and lineages. References with
// already stored accessions are skipped, new ones get ids after the
// stored ones.
func (m *manager) Setup(
	ctx context.Context,
	refs []*reference.Reference,
	props []*property.Property,
	lineages []property.Lineage,
) error {
	d, err := m.db()
	if err != nil {
		return err
	}

	stored, err := m.Catalog(ctx)
	if err != nil {
		return err
	}
	all := stored.References()
	for _, ref := range refs {
		if _, err := stored.Reference(ref.Accession); err == nil {
			slog.Info("Reference is already stored", "accession", ref.Accession)
			continue
		}
		all = append(all, ref)
	}
	cat, err := reference.NewCatalog(all...)
	if err != nil {
		return err
	}

	sch, _, err := m.Properties(ctx)
	if err != nil {
		return err
	}
	allProps := sch.All()
	for _, p := range props {
		if _, ok := sch.Get(p.Name); ok {
			continue
		}
		allProps = append(allProps, p)
	}
	if sch, err = property.NewSchema(allProps...); err != nil {
		return err
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return LoadError("references", err)
	}
	defer func() { _ = tx.Rollback() }()

	ins := []sq.InsertBuilder{}
	for _, b := range referenceInserts(cat) {
		ins = append(ins, b)
	}
	if len(sch.All()) > 0 {
		ins = append(ins, propertyInsert(sch))
	}
	if b, ok := lineageInsert(lineages); ok {
		ins = append(ins, b)
	}

	for _, b := range ins {
		q, args, err := b.Suffix("ON CONFLICT DO NOTHING").
			PlaceholderFormat(m.placeholder()).ToSql()
		if err != nil {
			return LoadError("references", err)
		}
		if _, err = tx.ExecContext(ctx, q, args...); err != nil {
			return LoadError("references", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return LoadError("references", err)
	}
	slog.Info("Reference data stored",
		"references", len(cat.References()),
		"properties", len(sch.All()),
		"lineages", len(lineages),
	)
	return nil
}

func referenceInserts(cat *reference.Catalog) []sq.InsertBuilder {
	var refs, mols, elems, parts []schema.DDLGenerator
	for _, ref := range cat.References() {
		refs = append(refs, &schema.Reference{
			ID:          ref.ID,
			Accession:   ref.Accession,
			Description: ref.Description,
			Organism:    ref.Organism,
			Translation: ref.Translation,
			Standard:    ref.Standard,
		})
		for _, mol := range ref.Molecules {
			mols = append(mols, &schema.Molecule{
				ID:          mol.ID,
				ReferenceID: ref.ID,
				Accession:   mol.Accession,
				Alias:       mol.Alias,
				Symbol:      mol.Symbol,
				Type:        mol.Type,
				Segment:     mol.Segment,
				Standard:    mol.Standard,
				Length:      len(mol.Sequence),
			})
			for _, e := range mol.Elements {
				elems = append(elems, &schema.Element{
					ID:          e.ID,
					MoleculeID:  mol.ID,
					Type:        string(e.Type),
					Accession:   e.Accession,
					Symbol:      e.Symbol,
					Description: e.Description,
					PosStart:    e.Start,
					PosEnd:      e.End,
					Strand:      e.Strand,
					Sequence:    e.Sequence,
					ParentID:    e.ParentID,
				})
				for i, p := range e.Parts {
					parts = append(parts, &schema.ElementPart{
						ElementID: e.ID,
						Ord:       i,
						PosStart:  p.Start,
						PosEnd:    p.End,
						Strand:    p.Strand,
						Base:      p.Base,
					})
				}
			}
		}
	}

	var res []sq.InsertBuilder
	for _, rows := range [][]schema.DDLGenerator{refs, mols, elems, parts} {
		if b, ok := schema.Insert(rows); ok {
			res = append(res, b)
		}
	}
	return res
}

func propertyInsert(sch *property.Schema) sq.InsertBuilder {
	var rows []schema.DDLGenerator
	for _, p := range sch.All() {
		rows = append(rows, &schema.Property{
			ID:          p.ID,
			Name:        p.Name,
			DataType:    string(p.DataType),
			QueryType:   string(p.QueryType),
			Description: p.Description,
		})
	}
	b, _ := schema.Insert(rows)
	return b
}

func lineageInsert(ll []property.Lineage) (sq.InsertBuilder, bool) {
	var rows []schema.DDLGenerator
	for _, l := range ll {
		// lineages without children keep an empty sublineage
		if len(l.Sublineages) == 0 {
			rows = append(rows, &schema.Lineage{Lineage: l.Name})
		}
		for _, sub := range l.Sublineages {
			rows = append(rows, &schema.Lineage{Lineage: l.Name, Sublineage: sub})
		}
	}
	return schema.Insert(rows)
}
