// Package iostore keeps imported samples in the relational store. All
// writes are idempotent: rows are keyed by deterministic ids and inserted
// with ON CONFLICT DO NOTHING.
package iostore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cenkalti/backoff"
	"github.com/gnames/gnuuid"
	"github.com/gnames/gnvariants/pkg/db"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/query"
	"github.com/gnames/gnvariants/pkg/schema"
	"github.com/gnames/gnvariants/pkg/variant"
	"github.com/jackc/pgx/v5/pgconn"
)

// RetryTimeout limits retries of transient connectivity errors.
var RetryTimeout = 30 * time.Second

// Sample is everything stored for one imported sample.
type Sample struct {
	Name    string
	Seqhash string
	Length  int
	// ElementID is the source element the sequence was aligned to.
	ElementID  int
	RunID      string
	Variants   []variant.Variant
	Properties []property.Value
}

// Store writes and reads samples.
type Store struct {
	operator  db.Operator
	batchSize int
}

// New creates a Store. BatchSize limits rows of one INSERT statement.
func New(op db.Operator, batchSize int) *Store {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Store{operator: op, batchSize: batchSize}
}

// SampleID is UUIDv5 of a sample name.
func SampleID(name string) string {
	return gnuuid.New(name).String()
}

// AlignmentID is UUIDv5 of `seqhash|element_id`.
func AlignmentID(seqhash string, elementID int) string {
	return gnuuid.New(seqhash + "|" + strconv.Itoa(elementID)).String()
}

// VariantID is UUIDv5 of the deduplication key of a variant.
func VariantID(v variant.Variant) string {
	return gnuuid.New(v.Key()).String()
}

func (s *Store) db() (*sql.DB, error) {
	if s.operator == nil || s.operator.DB() == nil {
		return nil, NotConnectedError()
	}
	return s.operator.DB(), nil
}

func (s *Store) builder() sq.StatementBuilderType {
	ph := query.NewDialect(s.operator.Driver()).Placeholder()
	return sq.StatementBuilder.PlaceholderFormat(ph)
}

// SampleSeqhash returns the seqhash of a stored sample.
func (s *Store) SampleSeqhash(ctx context.Context, name string) (string, bool, error) {
	d, err := s.db()
	if err != nil {
		return "", false, err
	}
	q, args, err := s.builder().Select("seqhash").From("sample").
		Where(sq.Eq{"id": SampleID(name)}).ToSql()
	if err != nil {
		return "", false, ReadError("sample", err)
	}
	var res string
	err = d.QueryRowContext(ctx, q, args...).Scan(&res)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, ReadError("sample", err)
	}
	return res, true, nil
}

// Insert stores a sample with its sequence, alignment, variants and
// properties in one transaction. A stored sample with another sequence
// is replaced, rows that lost their last reference are swept after
// commit. It returns true if a sample was replaced.
func (s *Store) Insert(ctx context.Context, smp Sample) (bool, error) {
	d, err := s.db()
	if err != nil {
		return false, err
	}
	var replaced bool
	err = s.retry(ctx, "insert sample", func() error {
		replaced = false
		tx, err := d.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		old, found, err := s.seqhashTx(ctx, tx, smp.Name)
		if err != nil {
			return err
		}
		if found && old != smp.Seqhash {
			if err = s.deleteSampleRows(ctx, tx, []string{SampleID(smp.Name)}); err != nil {
				return err
			}
			replaced = true
		}
		for _, b := range s.sampleInserts(smp) {
			if err = s.exec(ctx, tx, b.Suffix("ON CONFLICT DO NOTHING")); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return false, WriteError("sample "+smp.Name, err)
	}
	if replaced {
		slog.Info("Sample sequence changed", "sample", smp.Name)
		if _, err = s.SweepOrphans(ctx); err != nil {
			return true, err
		}
	}
	return replaced, nil
}

func (s *Store) seqhashTx(ctx context.Context, tx *sql.Tx, name string) (string, bool, error) {
	q, args, err := s.builder().Select("seqhash").From("sample").
		Where(sq.Eq{"id": SampleID(name)}).ToSql()
	if err != nil {
		return "", false, err
	}
	var res string
	err = tx.QueryRowContext(ctx, q, args...).Scan(&res)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	return res, err == nil, err
}

func (s *Store) sampleInserts(smp Sample) []sq.InsertBuilder {
	sampleID := SampleID(smp.Name)
	alnID := AlignmentID(smp.Seqhash, smp.ElementID)

	seqRows := []schema.DDLGenerator{
		&schema.Sequence{Seqhash: smp.Seqhash, Length: smp.Length},
	}
	alnRows := []schema.DDLGenerator{
		&schema.Alignment{ID: alnID, Seqhash: smp.Seqhash, ElementID: smp.ElementID},
	}

	var varRows, linkRows []schema.DDLGenerator
	seen := make(map[string]struct{}, len(smp.Variants))
	for _, v := range smp.Variants {
		id := VariantID(v)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		varRows = append(varRows, &schema.Variant{
			ID:         id,
			ElementID:  v.ElementID,
			PosStart:   v.Start,
			PosEnd:     v.End,
			Ref:        v.Ref,
			Alt:        v.Alt,
			Label:      v.Label,
			PreRef:     v.PreRef,
			ParentID:   v.ParentID,
			Frameshift: v.Frameshift,
		})
		linkRows = append(linkRows, &schema.Alignment2Variant{
			AlignmentID: alnID,
			VariantID:   id,
		})
	}

	smpRows := []schema.DDLGenerator{
		&schema.Sample{ID: sampleID, Name: smp.Name, Seqhash: smp.Seqhash, RunID: smp.RunID},
	}
	var propRows []schema.DDLGenerator
	for _, v := range smp.Properties {
		propRows = append(propRows, propertyRow(sampleID, v))
	}

	ph := query.NewDialect(s.operator.Driver()).Placeholder()
	var res []sq.InsertBuilder
	for _, rows := range [][]schema.DDLGenerator{
		seqRows, varRows, alnRows, linkRows, smpRows, propRows,
	} {
		for _, b := range schema.InsertBatches(rows, s.batchSize) {
			res = append(res, b.PlaceholderFormat(ph))
		}
	}
	return res
}

func propertyRow(sampleID string, v property.Value) *schema.Sample2Property {
	res := &schema.Sample2Property{SampleID: sampleID, PropertyID: v.PropertyID}
	switch {
	case v.Integer != nil:
		res.ValueInteger = sql.NullInt64{Int64: *v.Integer, Valid: true}
	case v.Float != nil:
		res.ValueFloat = sql.NullFloat64{Float64: *v.Float, Valid: true}
	case v.Date != nil:
		res.ValueDate = sql.NullString{String: *v.Date, Valid: true}
	case v.Text != nil:
		res.ValueText = sql.NullString{String: *v.Text, Valid: true}
	}
	return res
}

func (s *Store) exec(ctx context.Context, tx *sql.Tx, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, q, args...)
	return err
}

// retry repeats op while it fails with transient connectivity errors.
func (s *Store) retry(ctx context.Context, what string, op func() error) error {
	var b backoff.BackOff = &backoff.StopBackOff{}
	if RetryTimeout > 0 {
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = RetryTimeout
		b = bo
	}
	wrapped := func() error {
		err := op()
		if err == nil || isTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, d time.Duration) {
		slog.Warn("Retrying", "operation", what, "in", d, "error", err)
	}
	err := backoff.RetryNotify(wrapped, backoff.WithContext(b, ctx), notify)
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
