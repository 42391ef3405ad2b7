package iostore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/gnames/gnvariants/pkg/variant"
)

// Variants returns variants of the alignment of a sequence against an
// element that lie on that element, sorted by position.
func (s *Store) Variants(ctx context.Context, seqhash string, elementID int) ([]variant.Variant, error) {
	d, err := s.db()
	if err != nil {
		return nil, err
	}
	q, args, err := s.builder().Select(
		"v.element_id", "v.pos_start", "v.pos_end", "v.ref", "v.alt",
		"v.label", "v.pre_ref", "v.parent_id", "v.frameshift",
	).From("alignment a").
		Join("alignment2variant av ON av.alignment_id = a.id").
		Join("variant v ON v.id = av.variant_id").
		Where(sq.Eq{"a.id": AlignmentID(seqhash, elementID), "v.element_id": elementID}).
		OrderBy("v.pos_start", "v.pos_end", "v.alt").
		ToSql()
	if err != nil {
		return nil, ReadError("variants", err)
	}
	rows, err := d.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, ReadError("variants", err)
	}
	defer rows.Close()

	var res []variant.Variant
	for rows.Next() {
		var v variant.Variant
		var preRef *string
		err = rows.Scan(&v.ElementID, &v.Start, &v.End, &v.Ref, &v.Alt,
			&v.Label, &preRef, &v.ParentID, &v.Frameshift)
		if err != nil {
			return nil, ReadError("variants", err)
		}
		if preRef != nil {
			v.PreRef = *preRef
		}
		res = append(res, v)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError("variants", err)
	}
	return res, nil
}

// Count returns the number of rows in a table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	d, err := s.db()
	if err != nil {
		return 0, err
	}
	q, _, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, ReadError(table, err)
	}
	var res int
	if err = d.QueryRowContext(ctx, q).Scan(&res); err != nil {
		return 0, ReadError(table, err)
	}
	return res, nil
}

// AlignedElements returns ids of elements a sequence is aligned to.
func (s *Store) AlignedElements(ctx context.Context, seqhash string) ([]int, error) {
	d, err := s.db()
	if err != nil {
		return nil, err
	}
	q, args, err := s.builder().Select("element_id").From("alignment").
		Where(sq.Eq{"seqhash": seqhash}).OrderBy("element_id").ToSql()
	if err != nil {
		return nil, ReadError("alignments", err)
	}
	rows, err := d.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, ReadError("alignments", err)
	}
	defer rows.Close()

	var res []int
	for rows.Next() {
		var id int
		if err = rows.Scan(&id); err != nil {
			return nil, ReadError("alignments", err)
		}
		res = append(res, id)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError("alignments", err)
	}
	return res, nil
}
