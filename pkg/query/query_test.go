package query_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/gnames/gnvariants/pkg/profile"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/query"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const molSeq = "ATGAATAAATAAGGCTTGACCCATGGTTTC"

func compiler(t *testing.T, d query.Dialect) *query.Compiler {
	mol := &reference.Molecule{
		Accession: "TOY.1",
		Alias:     "main",
		Sequence:  molSeq,
		Elements: []*reference.Element{
			{Type: reference.CDS, Symbol: "P1", Start: 0, End: 9, Strand: 1},
			{Type: reference.CDS, Symbol: "P2", Start: 21, End: 30, Strand: -1},
		},
	}
	cat, err := reference.NewCatalog(&reference.Reference{
		Accession: "TOY",
		Molecules: []*reference.Molecule{mol},
	})
	require.Nil(t, err)

	sch, err := property.NewSchema(
		&property.Property{Name: "DEPTH", DataType: property.Integer},
		&property.Property{Name: "COUNTRY", DataType: property.Text},
		&property.Property{Name: "COLLECTED", DataType: property.Date},
	)
	require.Nil(t, err)
	return query.NewCompiler(cat, sch, nil, d)
}

func errCode(t *testing.T, err error) gn.ErrorCode {
	require.NotNil(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "expected *gn.Error, got %T", err)
	return gnErr.Code
}

func TestParseMode(t *testing.T) {
	assert := assert.New(t)
	m, err := query.ParseMode("")
	assert.Nil(err)
	assert.Equal(query.Rows, m)

	m, err = query.ParseMode(" VCF ")
	assert.Nil(err)
	assert.Equal(query.VCF, m)

	_, err = query.ParseMode("json")
	assert.Equal(errcode.QueryModeError, errCode(t, err))
}

func TestRender(t *testing.T) {
	tests := []struct {
		msg  string
		node query.Node
		sql  string
		args []any
	}{
		{
			"eq",
			query.Term{Column: "v.ref", Op: profile.OpEq, Values: []any{"A"}},
			"v.ref = ?",
			[]any{"A"},
		},
		{
			"in",
			query.Term{Column: "v.alt", Op: profile.OpIn, Values: []any{"A", "T"}},
			"v.alt IN (?,?)",
			[]any{"A", "T"},
		},
		{
			"between",
			query.Term{
				Column:  "sp.value_integer",
				Op:      profile.OpBetween,
				Values:  []any{int64(1), int64(5)},
				LowerOp: profile.OpGe,
				UpperOp: profile.OpLt,
			},
			"(sp.value_integer >= ? AND sp.value_integer < ?)",
			[]any{int64(1), int64(5)},
		},
		{
			"like",
			query.Term{Column: "sp.value_text", Op: profile.OpLike, Values: []any{"12%"}},
			"sp.value_text LIKE ?",
			[]any{"12%"},
		},
		{
			"negated any",
			query.Combinator{Any: true, Negate: true, Nodes: []query.Node{
				query.Term{Column: "a", Op: profile.OpEq, Values: []any{1}},
				query.Term{Column: "b", Op: profile.OpNe, Values: []any{2}},
			}},
			"NOT (a = ? OR b <> ?)",
			[]any{1, 2},
		},
		{
			"condition",
			query.Condition{Terms: []query.Term{
				{Column: "a", Op: profile.OpGt, Values: []any{1}},
				{Column: "b", Op: profile.OpLe, Values: []any{2}},
			}},
			"(a > ? AND b <= ?)",
			[]any{1, 2},
		},
	}

	for _, v := range tests {
		sql, args, err := query.Render(v.node)
		require.Nil(t, err, v.msg)
		assert.Equal(t, v.sql, sql, v.msg)
		assert.Equal(t, v.args, args, v.msg)
	}

	_, _, err := query.Render(query.Term{Column: "a", Op: profile.OpGt})
	assert.NotNil(t, err)
}

func TestCompileCount(t *testing.T) {
	assert := assert.New(t)
	c := compiler(t, query.SQLite)
	plan, err := c.Compile(query.Request{
		Profiles: []string{"A4W A4W"},
		Mode:     query.Count,
	})
	require.Nil(t, err)
	assert.Equal(query.Count, plan.Mode)
	assert.Equal("TOY.1", plan.DefaultMolecule)

	st, ok := plan.Stmt(query.StmtCount)
	require.True(t, ok)
	assert.True(strings.HasPrefix(st.SQL, "SELECT COUNT(*) FROM (SELECT agg.sample_id"))
	assert.Contains(st.SQL, "SUM(CASE WHEN")
	assert.Contains(st.SQL, "v.alt IN (?,?)")
	assert.Contains(st.SQL, "agg.t0 >= ?")
	assert.NotContains(st.SQL, " AS t1")
	assert.Equal([]any{1, 3, "A", "A", "T", 1, int64(1), int64(1)}, st.Args)
}

func TestCompileDialect(t *testing.T) {
	c := compiler(t, query.Postgres)
	plan, err := c.Compile(query.Request{Profiles: []string{"A4T"}, Mode: query.Count})
	require.Nil(t, err)
	st, _ := plan.Stmt(query.StmtCount)
	assert.Contains(t, st.SQL, "$1")
	assert.Contains(t, st.SQL, "$6")
	assert.NotContains(t, st.SQL, "?")
}

func TestCompileTerms(t *testing.T) {
	c := compiler(t, query.SQLite)

	tests := []struct {
		msg      string
		profiles []string
		contains []string
		args     []any
	}{
		{
			"negated",
			[]string{"^A4T"},
			[]string{"agg.t0 = ?"},
			[]any{1, 3, "A", "T", 1, int64(0)},
		},
		{
			"exact alt",
			[]string{"A4=W"},
			[]string{"v.alt IN (?)"},
			[]any{1, 3, "A", "W", 1, int64(1)},
		},
		{
			"deletion range",
			[]string{"del:5-6"},
			[]string{"v.pos_start <= ?", "v.pos_end >= ?"},
			[]any{1, " ", 4, 6, 1, int64(1)},
		},
		{
			"pinned deletion",
			[]string{"del:=5-=6"},
			[]string{"v.pos_start = ?", "v.pos_end = ?"},
			[]any{1, " ", 4, 6, 1, int64(1)},
		},
		{
			"amino acid",
			[]string{"P1:N2Y"},
			[]string{"v.element_id = ?"},
			[]any{2, 1, "N", "Y", 1, int64(1)},
		},
		{
			"molecule and gene",
			[]string{"main:P2:E1K"},
			nil,
			[]any{3, 0, "E", "K", 1, int64(1)},
		},
		{
			"insertion",
			[]string{"A4AGG"},
			[]string{"v.alt = ?"},
			[]any{1, 3, "A", "AGG", 1, int64(1)},
		},
		{
			"leading insertion",
			[]string{".0GG"},
			nil,
			[]any{1, -1, ".", "GG", 1, int64(1)},
		},
		{
			"two profiles",
			[]string{"A4T", "^A4T"},
			[]string{"(agg.t0 >= ?)", "(agg.t0 = ?)", " OR "},
			[]any{1, 3, "A", "T", 1, int64(1), int64(0)},
		},
		{
			"multi base substitution",
			[]string{"AA4TC"},
			[]string{" AS t1"},
			[]any{1, 3, "A", "T", 1, 4, "A", "C", 1, int64(1), int64(1)},
		},
	}

	for _, v := range tests {
		plan, err := c.Compile(query.Request{Profiles: v.profiles, Mode: query.Count})
		require.Nil(t, err, v.msg)
		st, _ := plan.Stmt(query.StmtCount)
		for _, s := range v.contains {
			assert.Contains(t, st.SQL, s, v.msg)
		}
		assert.Equal(t, v.args, st.Args, v.msg)
	}
}

func TestCompileProperties(t *testing.T) {
	assert := assert.New(t)
	c := compiler(t, query.SQLite)
	plan, err := c.Compile(query.Request{
		Properties: map[string][]string{
			"DEPTH":   {"10:20"},
			"COUNTRY": {"Germany", "^France"},
		},
		Mode: query.Count,
	})
	require.Nil(t, err)
	st, _ := plan.Stmt(query.StmtCount)
	assert.NotContains(st.SQL, "SUM(")
	assert.Contains(st.SQL, "s.id NOT IN (SELECT sp.sample_id FROM sample2property sp")
	assert.Contains(st.SQL, "sp.value_integer >= ? AND sp.value_integer <= ?")
	// COUNTRY sorts before DEPTH
	assert.Equal([]any{
		1,
		2, "France",
		2, "Germany",
		1, int64(10), int64(20),
	}, st.Args)
}

func TestCompileRows(t *testing.T) {
	assert := assert.New(t)
	c := compiler(t, query.SQLite)
	plan, err := c.Compile(query.Request{Profiles: []string{"A4T"}})
	require.Nil(t, err)
	assert.Equal(query.Rows, plan.Mode)
	assert.Len(plan.Stmts, 3)
	for _, name := range []string{
		query.StmtSamples, query.StmtVariants, query.StmtProperties,
	} {
		st, ok := plan.Stmt(name)
		assert.True(ok, name)
		assert.Contains(st.SQL, "agg.sample_id", name)
	}

	plan, err = c.Compile(query.Request{Mode: query.VCF})
	require.Nil(t, err)
	st, ok := plan.Stmt(query.StmtVCF)
	require.True(t, ok)
	assert.Contains(st.SQL, "e.type = ?")
	assert.Contains(st.Args, "source")
}

func TestCompileErrors(t *testing.T) {
	c := compiler(t, query.SQLite)

	tests := []struct {
		msg  string
		req  query.Request
		code gn.ErrorCode
	}{
		{"mode", query.Request{Mode: "json"}, errcode.QueryModeError},
		{"syntax", query.Request{Profiles: []string{"A4"}}, errcode.QuerySyntaxError},
		{"gene", query.Request{Profiles: []string{"S:N501Y"}}, errcode.QueryUnknownElementError},
		{
			"gene on molecule",
			query.Request{Profiles: []string{"main:S:N501Y"}},
			errcode.QueryUnknownElementError,
		},
		{
			"molecule",
			query.Request{Profiles: []string{"chrX:P1:N2Y"}},
			errcode.QueryUnknownElementError,
		},
		{"ref equals alt", query.Request{Profiles: []string{"A4A"}}, errcode.QuerySyntaxError},
		{
			"unknown property",
			query.Request{Properties: map[string][]string{"HOST": {"human"}}},
			errcode.QueryPropertyError,
		},
		{
			"bad range",
			query.Request{Properties: map[string][]string{"DEPTH": {"20:10"}}},
			errcode.QueryPropertyError,
		},
		{
			"bad date",
			query.Request{Properties: map[string][]string{"COLLECTED": {"2021-13-01"}}},
			errcode.QueryPropertyError,
		},
		{
			"reference",
			query.Request{Reference: "NOPE"},
			errcode.ReferenceNotFoundError,
		},
		{
			"write sql",
			query.Request{Mode: query.SQL, SQL: "DELETE FROM sample"},
			errcode.QueryNotReadOnlyError,
		},
	}

	for _, v := range tests {
		_, err := c.Compile(v.req)
		assert.Equal(t, v.code, errCode(t, err), v.msg)
	}
}

func TestIsReadOnly(t *testing.T) {
	tests := []struct {
		msg string
		sql string
		ok  bool
	}{
		{"select", "SELECT * FROM sample", true},
		{"trailing semicolon", "select name from sample;  ", true},
		{"with", "WITH x AS (SELECT 1) SELECT * FROM x", true},
		{"values", "VALUES (1)", true},
		{"keyword in string", "SELECT * FROM sample WHERE name = 'drop; delete'", true},
		{"keyword in comment", "SELECT 1 -- delete everything", true},
		{"block comment", "SELECT /* update */ 1", true},
		{"quoted identifier", `SELECT "insert" FROM t`, true},
		{"dollar quote", "SELECT $$ drop $$", true},
		{"positional", "SELECT * FROM t WHERE id = $1", true},
		{"delete", "DELETE FROM sample", false},
		{"two statements", "SELECT 1; DROP TABLE sample", false},
		{"cte write", "WITH d AS (DELETE FROM sample RETURNING *) SELECT * FROM d", false},
		{"select into", "SELECT * INTO copy FROM sample", false},
		{"pragma", "PRAGMA writable_schema = 1", false},
		{"empty", " ; ", false},
		{"unterminated", "SELECT 'oops", false},
		{"explain", "EXPLAIN SELECT 1", false},
	}

	for _, v := range tests {
		err := query.IsReadOnly(v.sql)
		if v.ok {
			assert.Nil(t, err, v.msg)
			continue
		}
		assert.Equal(t, errcode.QueryNotReadOnlyError, errCode(t, err), v.msg)
	}
}

func TestAssembleRows(t *testing.T) {
	assert := assert.New(t)
	samples := []query.SampleRow{{ID: "id1", Name: "s1"}, {ID: "id2", Name: "s2"}}
	vars := []query.VariantRow{
		{SampleID: "id1", Label: "A4T", ElementType: "source", Molecule: "TOY.1"},
		{SampleID: "id1", Label: "del:7-8", ElementType: "source", Molecule: "TOY.1"},
		{SampleID: "id1", Label: "N2Y", ElementType: "cds", Symbol: "P1", Molecule: "TOY.1"},
		{SampleID: "id2", Label: "C5G", ElementType: "source", Molecule: "SEG.2"},
	}
	props := []query.PropertyRow{{SampleID: "id2", Name: "DEPTH", Value: "12"}}

	rows := query.AssembleRows("TOY.1", samples, vars, props)
	require.Len(t, rows, 2)
	assert.Equal("s1", rows[0].Name)
	assert.Equal("A4T del:7-8", rows[0].NtProfile)
	assert.Equal("P1:N2Y", rows[0].AaProfile)
	assert.Nil(rows[0].Properties)
	assert.Equal("SEG.2:C5G", rows[1].NtProfile)
	assert.Equal("12", rows[1].Properties["DEPTH"])
}

func TestPivotVCF(t *testing.T) {
	assert := assert.New(t)
	vars := []query.VCFVariant{
		{Sample: "s2", Molecule: "TOY.1", Start: 3, End: 4, Ref: "A", Alt: "G"},
		{Sample: "s1", Molecule: "TOY.1", Start: 3, End: 4, Ref: "A", Alt: "T"},
		{Sample: "s1", Molecule: "TOY.1", Start: 6, End: 8, Ref: "AA", Alt: " ", PreRef: "T"},
		{Sample: "s1", Molecule: "TOY.1", Start: 0, End: 2, Ref: "AT", Alt: "."},
		{Sample: "s2", Molecule: "TOY.1", Start: -1, End: 0, Ref: ".", Alt: "GG"},
		{Sample: "s2", Molecule: "TOY.1", Start: 9, End: 10, Ref: "T", Alt: "TCC", PreRef: "A"},
		{Sample: "other", Molecule: "TOY.1", Start: 1, End: 2, Ref: "T", Alt: "C"},
	}
	tbl := query.PivotVCF([]string{"s1", "s2"}, vars)
	require.Len(t, tbl.Records, 3)

	r := tbl.Records[0]
	assert.Equal(4, r.Pos)
	assert.Equal("A", r.Ref)
	assert.Equal([]string{"G", "T"}, r.Alts)
	assert.Equal([]int{2, 1}, r.Genotypes)

	r = tbl.Records[1]
	assert.Equal(6, r.Pos)
	assert.Equal("TAA", r.Ref)
	assert.Equal([]string{"T"}, r.Alts)
	assert.Equal([]int{1, 0}, r.Genotypes)

	r = tbl.Records[2]
	assert.Equal(10, r.Pos)
	assert.Equal([]string{"TCC"}, r.Alts)
	assert.Equal([]int{0, 1}, r.Genotypes)

	var buf bytes.Buffer
	require.Nil(t, tbl.Write(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal("##fileformat=VCFv4.2", lines[0])
	assert.True(strings.HasSuffix(lines[2], "FORMAT\ts1\ts2"))
	assert.Equal("TOY.1\t4\t.\tA\tG,T\t.\t.\t.\tGT\t2\t1", lines[3])
}
