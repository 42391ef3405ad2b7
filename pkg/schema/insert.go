package schema

import (
	sq "github.com/Masterminds/squirrel"
)

// Insert builds a multi-row INSERT from models of the same table. It
// returns false for an empty slice.
func Insert(rows []DDLGenerator) (sq.InsertBuilder, bool) {
	if len(rows) == 0 {
		return sq.InsertBuilder{}, false
	}
	cols, _ := Columns(rows[0])
	b := sq.Insert(rows[0].TableName()).Columns(cols...)
	for _, r := range rows {
		_, vals := Columns(r)
		b = b.Values(vals...)
	}
	return b, true
}

// InsertBatches splits rows into INSERT statements of at most size rows.
func InsertBatches(rows []DDLGenerator, size int) []sq.InsertBuilder {
	if size <= 0 {
		size = len(rows)
	}
	var res []sq.InsertBuilder
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		if b, ok := Insert(rows[start:end]); ok {
			res = append(res, b)
		}
	}
	return res
}
