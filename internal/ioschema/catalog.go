package ioschema

import (
	"context"
	"database/sql"

	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/reference"
)

// Catalog reads stored references and builds a validated catalog.
func (m *manager) Catalog(ctx context.Context) (*reference.Catalog, error) {
	d, err := m.db()
	if err != nil {
		return nil, err
	}

	var refs []*reference.Reference
	refByID := make(map[int]*reference.Reference)
	err = scanAll(ctx, d, "references",
		`SELECT id, accession, description, organism, translation, standard
		FROM reference ORDER BY id`,
		func(rows *sql.Rows) error {
			r := &reference.Reference{}
			var desc, org sql.NullString
			err := rows.Scan(&r.ID, &r.Accession, &desc, &org, &r.Translation, &r.Standard)
			r.Description, r.Organism = desc.String, org.String
			refs = append(refs, r)
			refByID[r.ID] = r
			return err
		})
	if err != nil {
		return nil, err
	}

	molByID := make(map[int]*reference.Molecule)
	err = scanAll(ctx, d, "molecules",
		`SELECT id, reference_id, accession, alias, symbol, type, segment, standard
		FROM molecule ORDER BY id`,
		func(rows *sql.Rows) error {
			mol := &reference.Molecule{}
			var alias, symbol, tp sql.NullString
			err := rows.Scan(&mol.ID, &mol.ReferenceID, &mol.Accession, &alias,
				&symbol, &tp, &mol.Segment, &mol.Standard)
			mol.Alias, mol.Symbol, mol.Type = alias.String, symbol.String, tp.String
			if ref, ok := refByID[mol.ReferenceID]; ok {
				ref.Molecules = append(ref.Molecules, mol)
			}
			molByID[mol.ID] = mol
			return err
		})
	if err != nil {
		return nil, err
	}

	elemByID := make(map[int]*reference.Element)
	err = scanAll(ctx, d, "elements",
		`SELECT id, molecule_id, type, accession, symbol, description,
			pos_start, pos_end, strand, sequence, parent_id
		FROM element ORDER BY id`,
		func(rows *sql.Rows) error {
			e := &reference.Element{}
			var tp string
			var acc, symbol, desc sql.NullString
			err := rows.Scan(&e.ID, &e.MoleculeID, &tp, &acc, &symbol, &desc,
				&e.Start, &e.End, &e.Strand, &e.Sequence, &e.ParentID)
			e.Type = reference.ElementType(tp)
			e.Accession, e.Symbol, e.Description = acc.String, symbol.String, desc.String
			if mol, ok := molByID[e.MoleculeID]; ok {
				mol.Elements = append(mol.Elements, e)
				if e.Type == reference.Source {
					mol.Sequence = e.Sequence
				}
			}
			elemByID[e.ID] = e
			return err
		})
	if err != nil {
		return nil, err
	}

	err = scanAll(ctx, d, "element parts",
		`SELECT element_id, pos_start, pos_end, strand, base
		FROM element_part ORDER BY element_id, ord`,
		func(rows *sql.Rows) error {
			var id int
			var p reference.Part
			err := rows.Scan(&id, &p.Start, &p.End, &p.Strand, &p.Base)
			if e, ok := elemByID[id]; ok {
				e.Parts = append(e.Parts, p)
			}
			return err
		})
	if err != nil {
		return nil, err
	}

	return reference.NewCatalog(refs...)
}

// Properties reads the property schema and the lineage index.
func (m *manager) Properties(
	ctx context.Context,
) (*property.Schema, *property.Lineages, error) {
	d, err := m.db()
	if err != nil {
		return nil, nil, err
	}

	var props []*property.Property
	err = scanAll(ctx, d, "properties",
		`SELECT id, name, datatype, querytype, description
		FROM property ORDER BY id`,
		func(rows *sql.Rows) error {
			p := &property.Property{}
			var dt, qt string
			var desc sql.NullString
			err := rows.Scan(&p.ID, &p.Name, &dt, &qt, &desc)
			p.DataType, p.QueryType = property.DataType(dt), property.QueryType(qt)
			p.Description = desc.String
			props = append(props, p)
			return err
		})
	if err != nil {
		return nil, nil, err
	}
	sch, err := property.NewSchema(props...)
	if err != nil {
		return nil, nil, err
	}

	var ll []property.Lineage
	idx := make(map[string]int)
	err = scanAll(ctx, d, "lineages",
		`SELECT lineage, sublineage FROM lineage ORDER BY lineage, sublineage`,
		func(rows *sql.Rows) error {
			var name, sub string
			if err := rows.Scan(&name, &sub); err != nil {
				return err
			}
			i, ok := idx[name]
			if !ok {
				i = len(ll)
				idx[name] = i
				ll = append(ll, property.Lineage{Name: name})
			}
			if sub != "" {
				ll[i].Sublineages = append(ll[i].Sublineages, sub)
			}
			return nil
		})
	if err != nil {
		return nil, nil, err
	}
	return sch, property.NewLineages(ll), nil
}

func scanAll(
	ctx context.Context,
	d *sql.DB,
	what, query string,
	scan func(*sql.Rows) error,
) error {
	rows, err := d.QueryContext(ctx, query)
	if err != nil {
		return CatalogReadError(what, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return CatalogReadError(what, err)
		}
	}
	if err := rows.Err(); err != nil {
		return CatalogReadError(what, err)
	}
	return nil
}
