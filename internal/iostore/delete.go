package iostore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/dustin/go-humanize"
)

// DeleteSamples removes samples by name and sweeps rows that are not
// referenced anymore. It returns the number of deleted samples.
func (s *Store) DeleteSamples(ctx context.Context, names []string) (int, error) {
	d, err := s.db()
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(names))
	for i := range names {
		ids[i] = SampleID(names[i])
	}

	var deleted int64
	for start := 0; start < len(ids); start += s.batchSize {
		chunk := ids[start:min(start+s.batchSize, len(ids))]
		err = s.retry(ctx, "delete samples", func() error {
			tx, err := d.BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			defer func() { _ = tx.Rollback() }()
			n, err := s.deleteSamplesTx(ctx, tx, chunk)
			if err != nil {
				return err
			}
			if err = tx.Commit(); err != nil {
				return err
			}
			deleted += n
			return nil
		})
		if err != nil {
			return int(deleted), WriteError("samples", err)
		}
	}

	if _, err = s.SweepOrphans(ctx); err != nil {
		return int(deleted), err
	}
	slog.Info("Deleted samples", "requested", len(names), "deleted", deleted)
	return int(deleted), nil
}

func (s *Store) deleteSamplesTx(ctx context.Context, tx *sql.Tx, ids []string) (int64, error) {
	if err := s.exec(ctx, tx, s.builder().Delete("sample2property").
		Where(sq.Eq{"sample_id": ids})); err != nil {
		return 0, err
	}
	q, args, err := s.builder().Delete("sample").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) deleteSampleRows(ctx context.Context, tx *sql.Tx, ids []string) error {
	_, err := s.deleteSamplesTx(ctx, tx, ids)
	return err
}

// RemoveFailed drops a sample together with the alignment of its
// sequence. It is used when stored variants do not reproduce the
// sequence.
func (s *Store) RemoveFailed(ctx context.Context, name, seqhash string, elementID int) error {
	d, err := s.db()
	if err != nil {
		return err
	}
	alnID := AlignmentID(seqhash, elementID)
	err = s.retry(ctx, "remove failed sample", func() error {
		tx, err := d.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()
		stmts := []sq.Sqlizer{
			s.builder().Delete("alignment2variant").Where(sq.Eq{"alignment_id": alnID}),
			s.builder().Delete("alignment").Where(sq.Eq{"id": alnID}),
		}
		for _, b := range stmts {
			if err = s.exec(ctx, tx, b); err != nil {
				return err
			}
		}
		if err = s.deleteSampleRows(ctx, tx, []string{SampleID(name)}); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return WriteError("failed sample "+name, err)
	}
	_, err = s.SweepOrphans(ctx)
	return err
}

// orphanSweeps remove rows without references. The order matters, each
// step may create orphans for the next one.
var orphanSweeps = []struct {
	table string
	sql   string
}{
	{"sample2property", `
DELETE FROM sample2property
WHERE sample_id IN (
	SELECT sp.sample_id
	FROM sample2property sp
	LEFT OUTER JOIN sample s
		ON s.id = sp.sample_id
	WHERE s.id IS NULL
)`},
	{"sequence", `
DELETE FROM sequence
WHERE seqhash IN (
	SELECT sq.seqhash
	FROM sequence sq
	LEFT OUTER JOIN sample s
		ON s.seqhash = sq.seqhash
	WHERE s.id IS NULL
)`},
	{"alignment", `
DELETE FROM alignment
WHERE id IN (
	SELECT a.id
	FROM alignment a
	LEFT OUTER JOIN sequence sq
		ON sq.seqhash = a.seqhash
	WHERE sq.seqhash IS NULL
)`},
	{"alignment2variant", `
DELETE FROM alignment2variant
WHERE alignment_id IN (
	SELECT av.alignment_id
	FROM alignment2variant av
	LEFT OUTER JOIN alignment a
		ON a.id = av.alignment_id
	WHERE a.id IS NULL
)`},
	{"variant", `
DELETE FROM variant
WHERE id IN (
	SELECT v.id
	FROM variant v
	LEFT OUTER JOIN alignment2variant av
		ON av.variant_id = v.id
	WHERE av.variant_id IS NULL
)`},
}

// SweepOrphans deletes properties of missing samples, sequences without
// samples, alignments without sequences, junction rows without
// alignments and variants without junction rows.
func (s *Store) SweepOrphans(ctx context.Context) (int64, error) {
	d, err := s.db()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, v := range orphanSweeps {
		var res sql.Result
		err = s.retry(ctx, "sweep "+v.table, func() error {
			var err error
			res, err = d.ExecContext(ctx, v.sql)
			return err
		})
		if err != nil {
			return total, WriteError(v.table, err)
		}
		n, _ := res.RowsAffected()
		if n > 0 {
			slog.Info("Removed orphans", "table", v.table, "count", n)
		}
		total += n
	}
	msg := "No orphaned records found"
	if total > 0 {
		msg = fmt.Sprintf("Removed %s orphaned records", humanize.Comma(total))
	}
	slog.Debug(msg)
	return total, nil
}
