package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/gnames/gnvariants/pkg/profile"
)

// Node is an element of a predicate tree.
type Node interface {
	sqlizer() (sq.Sqlizer, error)
}

// Term compares a column with one or more values.
type Term struct {
	Column string
	Op     profile.Op
	Values []any
	// LowerOp and UpperOp are bound operators of OpBetween.
	LowerOp profile.Op
	UpperOp profile.Op
}

// Condition is a conjunction of terms evaluated on a single row.
type Condition struct {
	Terms []Term
}

// Combinator joins nodes with AND, or with OR when Any is set. Negate
// wraps the result in NOT.
type Combinator struct {
	Any    bool
	Negate bool
	Nodes  []Node
}

// Render converts a node to SQL with `?` placeholders.
func Render(n Node) (string, []any, error) {
	s, err := n.sqlizer()
	if err != nil {
		return "", nil, err
	}
	return s.ToSql()
}

func (t Term) sqlizer() (sq.Sqlizer, error) {
	switch t.Op {
	case profile.OpIn:
		return sq.Eq{t.Column: t.Values}, nil
	case profile.OpBetween:
		if len(t.Values) != 2 {
			return nil, fmt.Errorf("range on %s needs two values", t.Column)
		}
		lo, err := compare(t.Column, t.LowerOp, t.Values[0])
		if err != nil {
			return nil, err
		}
		hi, err := compare(t.Column, t.UpperOp, t.Values[1])
		if err != nil {
			return nil, err
		}
		return sq.And{lo, hi}, nil
	}
	if len(t.Values) == 0 {
		return nil, fmt.Errorf("no value for %s", t.Column)
	}
	if len(t.Values) > 1 && t.Op == profile.OpEq {
		return sq.Eq{t.Column: t.Values}, nil
	}
	return compare(t.Column, t.Op, t.Values[0])
}

func compare(col string, op profile.Op, val any) (sq.Sqlizer, error) {
	switch op {
	case profile.OpEq:
		return sq.Eq{col: val}, nil
	case profile.OpNe:
		return sq.NotEq{col: val}, nil
	case profile.OpGt:
		return sq.Gt{col: val}, nil
	case profile.OpGe:
		return sq.GtOrEq{col: val}, nil
	case profile.OpLt:
		return sq.Lt{col: val}, nil
	case profile.OpLe:
		return sq.LtOrEq{col: val}, nil
	case profile.OpLike:
		return sq.Like{col: val}, nil
	}
	return nil, fmt.Errorf("unsupported operator %q on %s", op, col)
}

func (c Condition) sqlizer() (sq.Sqlizer, error) {
	res := make(sq.And, 0, len(c.Terms))
	for _, t := range c.Terms {
		s, err := t.sqlizer()
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

func (c Combinator) sqlizer() (sq.Sqlizer, error) {
	parts := make([]sq.Sqlizer, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		s, err := n.sqlizer()
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}

	var res sq.Sqlizer = sq.And(parts)
	if c.Any {
		res = sq.Or(parts)
	}
	if !c.Negate {
		return res, nil
	}
	sql, args, err := res.ToSql()
	if err != nil {
		return nil, err
	}
	return sq.Expr("NOT "+sql, args...), nil
}
