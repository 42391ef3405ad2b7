package profile

import (
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnvariants/pkg/property"
)

// Op is a comparison operator of a property filter.
type Op string

const (
	OpEq      Op = "="
	OpNe      Op = "!="
	OpGt      Op = ">"
	OpGe      Op = ">="
	OpLt      Op = "<"
	OpLe      Op = "<="
	OpBetween Op = "between"
	OpLike    Op = "like"
	OpIn      Op = "in"
)

// Filter is a parsed property filter value.
type Filter struct {
	Property *property.Property
	Raw      string
	Negate   bool
	Op       Op
	// Values are typed: int64 for numeric, float64 for float, string for
	// everything else. Between filters keep lower and upper bounds.
	Values []any
	// LowerOp and UpperOp are the bound operators of a range.
	LowerOp Op
	UpperOp Op
}

// ParseFilter parses one filter value according to the query type of the
// property. Lineages are needed only for pango properties.
func ParseFilter(
	p *property.Property,
	raw string,
	ll *property.Lineages,
) (Filter, error) {
	res := Filter{Property: p, Raw: raw}
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "^") {
		res.Negate = true
		s = strings.TrimSpace(s[1:])
	}
	if s == "" {
		return res, PropertyError(p.Name, raw, "empty value")
	}

	switch p.QueryType {
	case property.QueryNumeric, property.QueryFloat, property.QueryDate:
		return res, res.parseComparable(s)
	case property.QueryZip:
		if strings.TrimFunc(strings.TrimSuffix(s, "%"), isDigit) != "" {
			return res, PropertyError(p.Name, raw, "zip code must contain digits only")
		}
		res.Op = OpLike
		res.Values = []any{strings.TrimSuffix(s, "%") + "%"}
	case property.QueryPango:
		if ll == nil {
			ll = property.NewLineages(nil)
		}
		res.Op = OpIn
		for _, l := range ll.Resolve(s) {
			res.Values = append(res.Values, l)
		}
	default:
		res.Op = OpEq
		if strings.Contains(s, "%") {
			res.Op = OpLike
		}
		res.Values = []any{s}
	}
	return res, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (f *Filter) parseComparable(s string) error {
	if lo, hi, ok := strings.Cut(s, ":"); ok {
		return f.parseRange(lo, hi)
	}

	op, val := splitOp(s)
	v, err := f.convert(val)
	if err != nil {
		return err
	}
	f.Op = op
	f.Values = []any{v}
	return nil
}

func (f *Filter) parseRange(lo, hi string) error {
	name := f.Property.Name
	loOp, loVal := splitOp(lo)
	hiOp, hiVal := splitOp(hi)
	if loOp == OpEq {
		loOp = OpGe
	}
	if hiOp == OpEq {
		hiOp = OpLe
	}
	if loOp != OpGe && loOp != OpGt {
		return PropertyError(name, f.Raw, "lower bound must use > or >=")
	}
	if hiOp != OpLe && hiOp != OpLt {
		return PropertyError(name, f.Raw, "upper bound must use < or <=")
	}

	l, err := f.convert(loVal)
	if err != nil {
		return err
	}
	h, err := f.convert(hiVal)
	if err != nil {
		return err
	}

	var bad bool
	switch lv := l.(type) {
	case int64:
		bad = lv > h.(int64)
	case float64:
		bad = lv > h.(float64)
	case string:
		bad = lv >= h.(string)
	}
	if bad {
		return PropertyError(name, f.Raw, "lower bound exceeds upper bound")
	}

	f.Op = OpBetween
	f.LowerOp, f.UpperOp = loOp, hiOp
	f.Values = []any{l, h}
	return nil
}

func (f *Filter) convert(s string) (any, error) {
	name := f.Property.Name
	s = strings.TrimSpace(s)
	switch f.Property.QueryType {
	case property.QueryNumeric:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, PropertyError(name, f.Raw, "integer value expected")
		}
		return i, nil
	case property.QueryFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, PropertyError(name, f.Raw, "number expected")
		}
		return v, nil
	default:
		if _, err := time.Parse(property.DateLayout, s); err != nil {
			return nil, PropertyError(name, f.Raw, "date must be YYYY-MM-DD")
		}
		return s, nil
	}
}

// splitOp detaches a comparison prefix. Values without prefix compare for
// equality.
func splitOp(s string) (Op, string) {
	s = strings.TrimSpace(s)
	for _, op := range []Op{OpGe, OpLe, OpNe, OpGt, OpLt} {
		if strings.HasPrefix(s, string(op)) {
			return op, s[len(op):]
		}
	}
	return OpEq, s
}
