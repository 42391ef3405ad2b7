package profile_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/gnames/gnvariants/pkg/profile"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMutation(t *testing.T) {
	tests := []struct {
		msg string
		raw string
		res profile.Mutation
	}{
		{
			msg: "nucleotide snv",
			raw: "A5T",
			res: profile.Mutation{
				Kind: variant.Substitution, Ref: "A", Pos: 5, Alt: "T",
			},
		},
		{
			msg: "amino acid with gene",
			raw: "S:N501Y",
			res: profile.Mutation{
				Qualifiers: []string{"S"},
				Kind:       variant.Substitution, Ref: "N", Pos: 501, Alt: "Y",
			},
		},
		{
			msg: "negated with molecule and gene",
			raw: "^MN908947.3:S:n501y",
			res: profile.Mutation{
				Negate:     true,
				Qualifiers: []string{"MN908947.3", "S"},
				Kind:       variant.Substitution, Ref: "N", Pos: 501, Alt: "Y",
			},
		},
		{
			msg: "exact alt",
			raw: "C241=N",
			res: profile.Mutation{
				Kind: variant.Substitution, Ref: "C", Pos: 241, Alt: "N",
				Exact: true,
			},
		},
		{
			msg: "insertion",
			raw: "G3GTT",
			res: profile.Mutation{
				Kind: variant.Insertion, Ref: "G", Pos: 3, Alt: "GTT",
			},
		},
		{
			msg: "leading insertion",
			raw: ".0GG",
			res: profile.Mutation{
				Kind: variant.Insertion, Ref: ".", Pos: 0, Alt: "GG",
			},
		},
		{
			msg: "single deletion",
			raw: "del:7",
			res: profile.Mutation{
				Kind: variant.Deletion, Start: 7, End: 7,
			},
		},
		{
			msg: "pinned deletion range",
			raw: "S:del:=69-=70",
			res: profile.Mutation{
				Qualifiers: []string{"S"},
				Kind:       variant.Deletion, Start: 69, End: 70,
				PinStart: true, PinEnd: true,
			},
		},
		{
			msg: "half pinned",
			raw: "del:7-=8",
			res: profile.Mutation{
				Kind: variant.Deletion, Start: 7, End: 8, PinEnd: true,
			},
		},
	}

	for _, v := range tests {
		m, err := profile.ParseMutation(v.raw)
		require.Nil(t, err, v.msg)
		v.res.Raw = v.raw
		if v.res.Qualifiers == nil {
			v.res.Qualifiers = []string{}
		}
		assert.Equal(t, v.res, m, v.msg)
	}
}

func TestParseMutationErrors(t *testing.T) {
	for _, raw := range []string{
		"", "^", "A0T", "501Y", "N501", "a:b:c:A5T", "del:", "del:8-7",
		"del:0", "AT5A", ".5G", "S::N501Y", "del:7:8",
		"A99999999999999999999T", "del:5-99999999999999999999",
	} {
		_, err := profile.ParseMutation(raw)
		require.NotNil(t, err, raw)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, raw)
		assert.Equal(t, errcode.QuerySyntaxError, gnErr.Code, raw)
	}
}

func TestParseProfile(t *testing.T) {
	mm, err := profile.ParseProfile("S:N501Y  ^del:7-8,A5T")
	require.Nil(t, err)
	require.Len(t, mm, 3)
	assert.True(t, mm[1].Negate)
	assert.Equal(t, "del:7-8", mm[1].Key())

	_, err = profile.ParseProfile("   ")
	assert.NotNil(t, err)
}

func TestAlts(t *testing.T) {
	tests := []struct {
		msg  string
		raw  string
		nt   bool
		alts []string
	}{
		{"concrete", "A5T", true, []string{"T"}},
		{"purine", "C5R", true, []string{"A", "G"}},
		{"any", "C5N", true, []string{"A", "C", "G", "T"}},
		{"exact", "C5=N", true, []string{"N"}},
		{"amino acid", "S:N501X", false, []string{"X"}},
		{"insertion", "G3GTT", true, []string{"GTT"}},
	}

	for _, v := range tests {
		m, err := profile.ParseMutation(v.raw)
		require.Nil(t, err, v.msg)
		assert.Equal(t, v.alts, m.Alts(v.nt), v.msg)
	}
}

func TestParseFilter(t *testing.T) {
	length := &property.Property{
		Name: "LENGTH", DataType: property.Integer, QueryType: property.QueryNumeric,
	}
	cov := &property.Property{
		Name: "COVERAGE", DataType: property.Float, QueryType: property.QueryFloat,
	}
	date := &property.Property{
		Name: "DATE", DataType: property.Date, QueryType: property.QueryDate,
	}
	tech := &property.Property{
		Name: "TECH", DataType: property.Text, QueryType: property.QueryText,
	}
	zip := &property.Property{
		Name: "ZIP", DataType: property.Zip, QueryType: property.QueryZip,
	}
	pango := &property.Property{
		Name: "LINEAGE", DataType: property.Pango, QueryType: property.QueryPango,
	}
	ll := property.NewLineages([]property.Lineage{
		{Name: "B.1.1.7", Sublineages: []string{"Q.1"}},
	})

	tests := []struct {
		msg    string
		prop   *property.Property
		raw    string
		negate bool
		op     profile.Op
		vals   []any
		lo, hi profile.Op
	}{
		{"equal", length, "1000", false, profile.OpEq, []any{int64(1000)}, "", ""},
		{"ge", length, ">=1000", false, profile.OpGe, []any{int64(1000)}, "", ""},
		{"negated ne", length, "^!=5", true, profile.OpNe, []any{int64(5)}, "", ""},
		{
			"range with ops", length, ">=1000:<=2000", false, profile.OpBetween,
			[]any{int64(1000), int64(2000)}, profile.OpGe, profile.OpLe,
		},
		{
			"bare range", length, "1000:2000", false, profile.OpBetween,
			[]any{int64(1000), int64(2000)}, profile.OpGe, profile.OpLe,
		},
		{
			"exclusive range", cov, ">0.5:<1", false, profile.OpBetween,
			[]any{0.5, 1.0}, profile.OpGt, profile.OpLt,
		},
		{"date", date, "<2021-01-01", false, profile.OpLt, []any{"2021-01-01"}, "", ""},
		{
			"date range", date, "2021-01-01:2021-02-01", false, profile.OpBetween,
			[]any{"2021-01-01", "2021-02-01"}, profile.OpGe, profile.OpLe,
		},
		{"text", tech, "Illumina", false, profile.OpEq, []any{"Illumina"}, "", ""},
		{"text like", tech, "^Ill%", true, profile.OpLike, []any{"Ill%"}, "", ""},
		{"zip", zip, "101", false, profile.OpLike, []any{"101%"}, "", ""},
		{
			"pango closure", pango, "B.1.1.7*", false, profile.OpIn,
			[]any{"B.1.1.7", "Q.1"}, "", "",
		},
	}

	for _, v := range tests {
		f, err := profile.ParseFilter(v.prop, v.raw, ll)
		require.Nil(t, err, v.msg)
		assert.Equal(t, v.negate, f.Negate, v.msg)
		assert.Equal(t, v.op, f.Op, v.msg)
		assert.Equal(t, v.vals, f.Values, v.msg)
		assert.Equal(t, v.lo, f.LowerOp, v.msg)
		assert.Equal(t, v.hi, f.UpperOp, v.msg)
	}
}

func TestParseFilterErrors(t *testing.T) {
	length := &property.Property{
		Name: "LENGTH", DataType: property.Integer, QueryType: property.QueryNumeric,
	}
	date := &property.Property{
		Name: "DATE", DataType: property.Date, QueryType: property.QueryDate,
	}
	zip := &property.Property{
		Name: "ZIP", DataType: property.Zip, QueryType: property.QueryZip,
	}

	tests := []struct {
		msg  string
		prop *property.Property
		raw  string
	}{
		{"not a number", length, "many"},
		{"reversed range", length, "2000:1000"},
		{"bad lower op", length, "<1:5"},
		{"bad date", date, "2021/01/01"},
		{"equal date bounds", date, "2021-01-01:2021-01-01"},
		{"letters in zip", zip, "1A"},
		{"empty", length, "^"},
	}

	for _, v := range tests {
		_, err := profile.ParseFilter(v.prop, v.raw, nil)
		require.NotNil(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, errcode.QueryPropertyError, gnErr.Code, v.msg)
	}
}
