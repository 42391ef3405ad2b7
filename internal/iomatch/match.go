// Package iomatch implements lifecycle.Matcher on top of the relational
// store. Requests are compiled by the query package, statements run in a
// single transaction that is never committed.
package iomatch

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gnames/gnvariants/internal/iostore"
	"github.com/gnames/gnvariants/pkg/db"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/query"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/variant"
)

// Matcher answers queries and restores sequences.
type Matcher struct {
	op       db.Operator
	cat      *reference.Catalog
	store    *iostore.Store
	compiler *query.Compiler
}

// New creates a Matcher. Schema and lineages can be nil when the store
// has no properties.
func New(
	op db.Operator,
	cat *reference.Catalog,
	sch *property.Schema,
	ll *property.Lineages,
) *Matcher {
	d := query.Postgres
	if op != nil {
		d = query.NewDialect(op.Driver())
	}
	return &Matcher{
		op:       op,
		cat:      cat,
		store:    iostore.New(op, 0),
		compiler: query.NewCompiler(cat, sch, ll, d),
	}
}

func (m *Matcher) db() (*sql.DB, error) {
	if m.op == nil || m.op.DB() == nil {
		return nil, iostore.NotConnectedError()
	}
	return m.op.DB(), nil
}

// Match compiles a request and runs it.
func (m *Matcher) Match(ctx context.Context, req query.Request) (query.Result, error) {
	var res query.Result
	plan, err := m.compiler.Compile(req)
	if err != nil {
		return res, err
	}
	res.Mode = plan.Mode

	d, err := m.db()
	if err != nil {
		return res, err
	}

	start := time.Now()
	opts := &sql.TxOptions{ReadOnly: m.op.Driver() != "sqlite"}
	tx, err := d.BeginTx(ctx, opts)
	if err != nil {
		return res, ExecError("transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	switch plan.Mode {
	case query.SQL:
		err = m.raw(ctx, tx, plan, &res)
	case query.Count:
		err = m.count(ctx, tx, plan, &res)
	case query.VCF:
		err = m.vcf(ctx, tx, plan, &res)
	default:
		err = m.rows(ctx, tx, plan, &res)
	}
	if err != nil {
		return res, err
	}
	slog.Debug("Query finished",
		"mode", plan.Mode,
		"count", res.Count,
		"duration", time.Since(start),
	)
	return res, nil
}

func (m *Matcher) count(ctx context.Context, tx *sql.Tx, plan query.Plan, res *query.Result) error {
	st, _ := plan.Stmt(query.StmtCount)
	if err := tx.QueryRowContext(ctx, st.SQL, st.Args...).Scan(&res.Count); err != nil {
		return ExecError(st.Name, err)
	}
	return nil
}

func (m *Matcher) samples(ctx context.Context, tx *sql.Tx, plan query.Plan) ([]query.SampleRow, error) {
	var res []query.SampleRow
	err := m.each(ctx, tx, plan, query.StmtSamples, func(rows *sql.Rows) error {
		var s query.SampleRow
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return err
		}
		res = append(res, s)
		return nil
	})
	return res, err
}

func (m *Matcher) rows(ctx context.Context, tx *sql.Tx, plan query.Plan, res *query.Result) error {
	samples, err := m.samples(ctx, tx, plan)
	if err != nil {
		return err
	}

	var vars []query.VariantRow
	err = m.each(ctx, tx, plan, query.StmtVariants, func(rows *sql.Rows) error {
		var v query.VariantRow
		var symbol sql.NullString
		if err := rows.Scan(&v.SampleID, &v.Label, &v.ElementType, &symbol, &v.Molecule); err != nil {
			return err
		}
		v.Symbol = symbol.String
		vars = append(vars, v)
		return nil
	})
	if err != nil {
		return err
	}

	var props []query.PropertyRow
	err = m.each(ctx, tx, plan, query.StmtProperties, func(rows *sql.Rows) error {
		var p query.PropertyRow
		var i sql.NullInt64
		var f sql.NullFloat64
		var t, d sql.NullString
		if err := rows.Scan(&p.SampleID, &p.Name, &i, &f, &t, &d); err != nil {
			return err
		}
		switch {
		case i.Valid:
			p.Value = strconv.FormatInt(i.Int64, 10)
		case f.Valid:
			p.Value = strconv.FormatFloat(f.Float64, 'g', -1, 64)
		case t.Valid:
			p.Value = t.String
		case d.Valid:
			p.Value = d.String
		default:
			return nil
		}
		props = append(props, p)
		return nil
	})
	if err != nil {
		return err
	}

	res.Rows = query.AssembleRows(plan.DefaultMolecule, samples, vars, props)
	res.Count = len(res.Rows)
	return nil
}

func (m *Matcher) vcf(ctx context.Context, tx *sql.Tx, plan query.Plan, res *query.Result) error {
	samples, err := m.samples(ctx, tx, plan)
	if err != nil {
		return err
	}
	names := make([]string, len(samples))
	for i := range samples {
		names[i] = samples[i].Name
	}

	var vars []query.VCFVariant
	err = m.each(ctx, tx, plan, query.StmtVCF, func(rows *sql.Rows) error {
		var v query.VCFVariant
		var preRef sql.NullString
		err := rows.Scan(&v.Sample, &v.Molecule, &v.Start, &v.End, &v.Ref, &v.Alt, &preRef)
		if err != nil {
			return err
		}
		v.PreRef = preRef.String
		vars = append(vars, v)
		return nil
	})
	if err != nil {
		return err
	}

	res.VCF = query.PivotVCF(names, vars)
	res.Count = len(names)
	return nil
}

// raw runs a user statement and converts every value to text. NULL
// becomes an empty string.
func (m *Matcher) raw(ctx context.Context, tx *sql.Tx, plan query.Plan, res *query.Result) error {
	st, _ := plan.Stmt(query.StmtRaw)
	rows, err := tx.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return ExecError(st.Name, err)
	}
	defer rows.Close()

	if res.Columns, err = rows.Columns(); err != nil {
		return ExecError(st.Name, err)
	}
	vals := make([]any, len(res.Columns))
	ptrs := make([]any, len(vals))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return ExecError(st.Name, err)
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = text(v)
		}
		res.Records = append(res.Records, rec)
	}
	if err = rows.Err(); err != nil {
		return ExecError(st.Name, err)
	}
	res.Count = len(res.Records)
	return nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func (m *Matcher) each(
	ctx context.Context,
	tx *sql.Tx,
	plan query.Plan,
	name string,
	scan func(*sql.Rows) error,
) error {
	st, ok := plan.Stmt(name)
	if !ok {
		return nil
	}
	rows, err := tx.QueryContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return ExecError(name, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err = scan(rows); err != nil {
			return ExecError(name, err)
		}
	}
	if err = rows.Err(); err != nil {
		return ExecError(name, err)
	}
	return nil
}

// Restore rebuilds the sequence of a stored sample.
func (m *Matcher) Restore(ctx context.Context, name string, aligned bool) (string, error) {
	hash, ok, err := m.store.SampleSeqhash(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", iostore.SampleNotFoundError(name)
	}
	ids, err := m.store.AlignedElements(ctx, hash)
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		e, ok := m.cat.Element(id)
		if !ok || e.Type != reference.Source {
			continue
		}
		vars, err := m.store.Variants(ctx, hash, id)
		if err != nil {
			return "", err
		}
		if aligned {
			return variant.RestoreAligned(e.Sequence, vars)
		}
		return variant.Restore(e.Sequence, vars)
	}
	return "", NoAlignmentError(name)
}
