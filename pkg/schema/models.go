// Package schema provides relational schema models for GNvariants.
// The same models generate portable DDL (SQLite) and drive GORM
// AutoMigrate (PostgreSQL).
package schema

import (
	"database/sql"
)

// DDLGenerator defines how Go models generate DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Reference is a reference genome.
type Reference struct {
	ID int `db:"id" ddl:"INTEGER PRIMARY KEY" gorm:"primaryKey;autoIncrement:false"`

	// Accession is a unique accession of the reference, usually the
	// accession of its main molecule.
	Accession string `db:"accession" ddl:"TEXT NOT NULL UNIQUE" gorm:"uniqueIndex;not null"`

	Description string `db:"description" ddl:"TEXT"`

	Organism string `db:"organism" ddl:"TEXT"`

	// Translation is the NCBI genetic code id.
	Translation int `db:"translation" ddl:"INTEGER NOT NULL DEFAULT 1" gorm:"not null;default:1"`

	// Standard marks the default reference.
	Standard bool `db:"standard" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"not null;default:false"`
}

// Molecule is a chromosome or segment of a reference.
type Molecule struct {
	ID int `db:"id" ddl:"INTEGER PRIMARY KEY" gorm:"primaryKey;autoIncrement:false"`

	ReferenceID int `db:"reference_id" ddl:"INTEGER NOT NULL" gorm:"index;not null"`

	Accession string `db:"accession" ddl:"TEXT NOT NULL UNIQUE" gorm:"uniqueIndex;not null"`

	Alias string `db:"alias" ddl:"TEXT"`

	Symbol string `db:"symbol" ddl:"TEXT"`

	Type string `db:"type" ddl:"TEXT"`

	Segment int `db:"segment" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	Standard bool `db:"standard" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"not null;default:false"`

	Length int `db:"length" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`
}

// Element is an annotated region (source, gene, cds) of a molecule.
type Element struct {
	ID int `db:"id" ddl:"INTEGER PRIMARY KEY" gorm:"primaryKey;autoIncrement:false"`

	MoleculeID int `db:"molecule_id" ddl:"INTEGER NOT NULL" gorm:"index;not null"`

	Type string `db:"type" ddl:"TEXT NOT NULL" gorm:"not null"`

	Accession string `db:"accession" ddl:"TEXT"`

	Symbol string `db:"symbol" ddl:"TEXT"`

	Description string `db:"description" ddl:"TEXT"`

	// PosStart and PosEnd are 0-based half-open molecule coordinates.
	PosStart int `db:"pos_start" ddl:"INTEGER NOT NULL" gorm:"not null"`

	PosEnd int `db:"pos_end" ddl:"INTEGER NOT NULL" gorm:"not null"`

	Strand int `db:"strand" ddl:"INTEGER NOT NULL DEFAULT 1" gorm:"not null;default:1"`

	Sequence string `db:"sequence" ddl:"TEXT NOT NULL" gorm:"not null"`

	ParentID int `db:"parent_id" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`
}

// ElementPart is a contiguous piece of a spliced element.
type ElementPart struct {
	ElementID int `db:"element_id" ddl:"INTEGER NOT NULL" gorm:"primaryKey;autoIncrement:false"`

	// Ord is the position of the part in transcription order.
	Ord int `db:"ord" ddl:"INTEGER NOT NULL" gorm:"primaryKey;autoIncrement:false"`

	PosStart int `db:"pos_start" ddl:"INTEGER NOT NULL" gorm:"not null"`

	PosEnd int `db:"pos_end" ddl:"INTEGER NOT NULL" gorm:"not null"`

	Strand int `db:"strand" ddl:"INTEGER NOT NULL" gorm:"not null"`

	// Base is the offset of the part inside the element sequence.
	Base int `db:"base" ddl:"INTEGER NOT NULL" gorm:"not null"`
}

// Sequence is a normalized nucleotide sequence identified by its hash.
// The sequence itself lives in the import cache.
type Sequence struct {
	Seqhash string `db:"seqhash" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	Length int `db:"length" ddl:"INTEGER NOT NULL" gorm:"not null"`
}

// Sample is a named sequenced isolate.
type Sample struct {
	// ID is UUIDv5 of the sample name.
	ID string `db:"id" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	Name string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"uniqueIndex;not null"`

	Seqhash string `db:"seqhash" ddl:"TEXT NOT NULL" gorm:"index;not null"`

	// RunID is the id of the import run that stored the sample.
	RunID string `db:"run_id" ddl:"TEXT"`
}

// Alignment links a sequence to a reference element it was aligned to.
type Alignment struct {
	// ID is UUIDv5 of `seqhash|element_id`.
	ID string `db:"id" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	Seqhash string `db:"seqhash" ddl:"TEXT NOT NULL" gorm:"uniqueIndex:idx_alignment_pair;not null"`

	ElementID int `db:"element_id" ddl:"INTEGER NOT NULL" gorm:"uniqueIndex:idx_alignment_pair;not null"`
}

// Variant is a globally deduplicated nucleotide or amino acid variant.
type Variant struct {
	// ID is UUIDv5 of `element_id|pos_start|pos_end|ref|alt`.
	ID string `db:"id" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	ElementID int `db:"element_id" ddl:"INTEGER NOT NULL" gorm:"index:idx_variant_element_label;index:idx_variant_element_pos;not null"`

	PosStart int `db:"pos_start" ddl:"INTEGER NOT NULL" gorm:"index:idx_variant_element_pos;not null"`

	PosEnd int `db:"pos_end" ddl:"INTEGER NOT NULL" gorm:"not null"`

	Ref string `db:"ref" ddl:"TEXT NOT NULL" gorm:"not null"`

	Alt string `db:"alt" ddl:"TEXT NOT NULL" gorm:"not null"`

	Label string `db:"label" ddl:"TEXT NOT NULL" gorm:"index:idx_variant_element_label;not null"`

	PreRef string `db:"pre_ref" ddl:"TEXT"`

	ParentID int `db:"parent_id" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	Frameshift bool `db:"frameshift" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"not null;default:false"`
}

// Alignment2Variant is the junction between alignments and variants.
type Alignment2Variant struct {
	AlignmentID string `db:"alignment_id" ddl:"TEXT NOT NULL" gorm:"primaryKey;type:text"`

	VariantID string `db:"variant_id" ddl:"TEXT NOT NULL" gorm:"primaryKey;type:text;index"`
}

// Property is a declared sample attribute.
type Property struct {
	ID int `db:"id" ddl:"INTEGER PRIMARY KEY" gorm:"primaryKey;autoIncrement:false"`

	Name string `db:"name" ddl:"TEXT NOT NULL UNIQUE" gorm:"uniqueIndex;not null"`

	DataType string `db:"datatype" ddl:"TEXT NOT NULL" gorm:"column:datatype;not null"`

	QueryType string `db:"querytype" ddl:"TEXT NOT NULL" gorm:"column:querytype;not null"`

	Description string `db:"description" ddl:"TEXT"`
}

// Sample2Property keeps typed property values of samples.
type Sample2Property struct {
	SampleID string `db:"sample_id" ddl:"TEXT NOT NULL" gorm:"primaryKey;type:text"`

	PropertyID int `db:"property_id" ddl:"INTEGER NOT NULL" gorm:"primaryKey;autoIncrement:false"`

	ValueInteger sql.NullInt64 `db:"value_integer" ddl:"BIGINT"`

	ValueFloat sql.NullFloat64 `db:"value_float" ddl:"DOUBLE PRECISION" gorm:"type:double precision"`

	ValueText sql.NullString `db:"value_text" ddl:"TEXT"`

	// ValueDate keeps YYYY-MM-DD strings, they sort chronologically.
	ValueDate sql.NullString `db:"value_date" ddl:"TEXT" gorm:"type:text"`
}

// Lineage is an edge of the lineage to sublineage graph.
type Lineage struct {
	Lineage string `db:"lineage" ddl:"TEXT NOT NULL" gorm:"primaryKey;type:text"`

	Sublineage string `db:"sublineage" ddl:"TEXT NOT NULL" gorm:"primaryKey;type:text"`
}
