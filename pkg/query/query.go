// Package query compiles mutation profiles and property filters into
// parameterized SQL statements. It does not touch the store: statements
// are executed by the caller and results assembled by the helpers of this
// package.
package query

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Mode selects the shape of a query result.
type Mode string

const (
	// Rows returns matched samples with properties and profiles.
	Rows Mode = "rows"
	// Count returns the number of matched samples.
	Count Mode = "count"
	// VCF returns nucleotide variants of matched samples pivoted to VCF.
	VCF Mode = "vcf"
	// SQL passes a read-only statement to the store as is.
	SQL Mode = "sql"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "":
		return Rows, nil
	case Rows, Count, VCF, SQL:
		return m, nil
	}
	return m, ModeError(s)
}

// Dialect is the SQL flavor of the store.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// NewDialect returns a dialect for a database driver name.
func NewDialect(driver string) Dialect {
	if driver == "sqlite" {
		return SQLite
	}
	return Postgres
}

// Placeholder returns the squirrel placeholder format of the dialect.
func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == SQLite {
		return sq.Question
	}
	return sq.Dollar
}

// Request is a query as given by a user.
type Request struct {
	// Profiles are disjunctive. Terms inside a profile are conjunctive.
	Profiles []string
	// Properties map property names to filter values.
	Properties map[string][]string
	// Reference is the accession of the reference. Empty means the default
	// one.
	Reference string
	Mode      Mode
	// SQL is the statement of SQL mode.
	SQL string
}

// Statement names used in a Plan.
const (
	StmtSamples    = "samples"
	StmtVariants   = "variants"
	StmtProperties = "properties"
	StmtCount      = "count"
	StmtVCF        = "vcf"
	StmtRaw        = "raw"
)

// Stmt is a statement ready for execution.
type Stmt struct {
	Name string
	SQL  string
	Args []any
}

// Plan is a compiled request.
type Plan struct {
	Mode  Mode
	Stmts []Stmt
	// DefaultMolecule is the accession of the molecule whose nucleotide
	// labels are reported without a prefix.
	DefaultMolecule string
}

// Stmt returns a statement by name.
func (p Plan) Stmt(name string) (Stmt, bool) {
	for _, s := range p.Stmts {
		if s.Name == name {
			return s, true
		}
	}
	return Stmt{}, false
}
