package query

import (
	"fmt"
	"slices"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/gnames/gnvariants/pkg/profile"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/variant"
)

// Compiler turns requests into plans. It is safe for concurrent use.
type Compiler struct {
	cat      *reference.Catalog
	schema   *property.Schema
	lineages *property.Lineages
	dialect  Dialect
}

// NewCompiler creates a Compiler. Schema and lineages can be nil when no
// property filters are going to be used.
func NewCompiler(
	cat *reference.Catalog,
	schema *property.Schema,
	ll *property.Lineages,
	d Dialect,
) *Compiler {
	if schema == nil {
		schema, _ = property.NewSchema()
	}
	if ll == nil {
		ll = property.NewLineages(nil)
	}
	return &Compiler{cat: cat, schema: schema, lineages: ll, dialect: d}
}

// matcher accumulates aggregate columns of distinct mutation conditions.
type matcher struct {
	cols  []sq.Sqlizer
	index map[string]int
}

func (m *matcher) column(c Condition) (string, error) {
	sql, args, err := Render(c)
	if err != nil {
		return "", err
	}
	key := sql + fmt.Sprint(args)
	if i, ok := m.index[key]; ok {
		return "agg.t" + strconv.Itoa(i), nil
	}
	i := len(m.cols)
	m.index[key] = i
	expr := sq.Expr("SUM(CASE WHEN "+sql+" THEN 1 ELSE 0 END)", args...)
	m.cols = append(m.cols, sq.Alias(expr, "t"+strconv.Itoa(i)))
	return "agg.t" + strconv.Itoa(i), nil
}

// Compile validates a request and builds its statements. All syntax,
// lookup and mode errors are returned here.
func (c *Compiler) Compile(req Request) (Plan, error) {
	var res Plan
	mode, err := ParseMode(string(req.Mode))
	if err != nil {
		return res, err
	}
	res.Mode = mode

	if mode == SQL {
		if err = IsReadOnly(req.SQL); err != nil {
			return res, err
		}
		res.Stmts = []Stmt{{Name: StmtRaw, SQL: req.SQL}}
		return res, nil
	}

	ref := c.cat.DefaultReference()
	if req.Reference != "" {
		if ref, err = c.cat.Reference(req.Reference); err != nil {
			return res, err
		}
	}
	if ref == nil {
		return res, reference.NotFoundError(req.Reference)
	}
	if mol := c.cat.DefaultMolecule(ref); mol != nil {
		res.DefaultMolecule = mol.Accession
	}

	match, err := c.Matcher(req, ref)
	if err != nil {
		return res, err
	}
	msql, margs, err := match.ToSql()
	if err != nil {
		return res, RenderError(err)
	}
	inMatch := sq.Expr("s.id IN ("+msql+")", margs...)

	var bs []namedBuilder
	switch mode {
	case Count:
		bs = append(bs, namedBuilder{StmtCount,
			sq.Select("COUNT(*)").FromSelect(match, "cnt")})
	case VCF:
		bs = append(bs,
			namedBuilder{StmtSamples, samplesBuilder(inMatch)},
			namedBuilder{StmtVCF, sq.Select(
				"s.name", "m.accession", "v.pos_start", "v.pos_end",
				"v.ref", "v.alt", "v.pre_ref",
			).From("sample s").
				Join("alignment a ON a.seqhash = s.seqhash").
				Join("alignment2variant av ON av.alignment_id = a.id").
				Join("variant v ON v.id = av.variant_id").
				Join("element e ON e.id = v.element_id").
				Join("molecule m ON m.id = e.molecule_id").
				Where(inMatch).
				Where(sq.Eq{"e.type": string(reference.Source)}).
				Where(sq.Eq{"m.reference_id": ref.ID}).
				OrderBy("m.accession", "v.pos_start", "s.name")},
		)
	default:
		bs = append(bs,
			namedBuilder{StmtSamples, samplesBuilder(inMatch)},
			namedBuilder{StmtVariants, sq.Select(
				"s.id", "v.label", "e.type", "e.symbol", "m.accession",
			).From("sample s").
				Join("alignment a ON a.seqhash = s.seqhash").
				Join("alignment2variant av ON av.alignment_id = a.id").
				Join("variant v ON v.id = av.variant_id").
				Join("element e ON e.id = v.element_id").
				Join("molecule m ON m.id = e.molecule_id").
				Where(inMatch).
				Where(sq.Eq{"m.reference_id": ref.ID}).
				OrderBy("s.id", "e.id", "v.pos_start", "v.alt")},
			namedBuilder{StmtProperties, sq.Select(
				"sp.sample_id", "p.name", "sp.value_integer", "sp.value_float",
				"sp.value_text", "sp.value_date",
			).From("sample2property sp").
				Join("property p ON p.id = sp.property_id").
				Where(sq.Expr("sp.sample_id IN ("+msql+")", margs...)).
				OrderBy("sp.sample_id", "p.name")},
		)
	}

	for _, b := range bs {
		sql, args, err := b.PlaceholderFormat(c.dialect.Placeholder()).ToSql()
		if err != nil {
			return res, RenderError(err)
		}
		res.Stmts = append(res.Stmts, Stmt{Name: b.name, SQL: sql, Args: args})
	}
	return res, nil
}

type namedBuilder struct {
	name string
	sq.SelectBuilder
}

func samplesBuilder(inMatch sq.Sqlizer) sq.SelectBuilder {
	return sq.Select("s.id", "s.name").From("sample s").
		Where(inMatch).OrderBy("s.name")
}

// Matcher builds a select of ids of matching samples as `sample_id`. The
// builder uses `?` placeholders.
func (c *Compiler) Matcher(
	req Request,
	ref *reference.Reference,
) (sq.SelectBuilder, error) {
	var res sq.SelectBuilder
	candidate := sq.Expr(
		"s.seqhash IN (SELECT ca.seqhash FROM alignment ca"+
			" JOIN element ce ON ce.id = ca.element_id"+
			" JOIN molecule cm ON cm.id = ce.molecule_id"+
			" WHERE cm.reference_id = ?)", ref.ID,
	)

	props, err := c.propertyConditions(req.Properties)
	if err != nil {
		return res, err
	}

	m := &matcher{index: make(map[string]int)}
	having := Combinator{Any: true}
	for _, p := range req.Profiles {
		muts, err := profile.ParseProfile(p)
		if err != nil {
			return res, err
		}
		all := Combinator{}
		for _, mut := range muts {
			n, err := c.mutationNode(m, mut, ref)
			if err != nil {
				return res, err
			}
			all.Nodes = append(all.Nodes, n)
		}
		having.Nodes = append(having.Nodes, all)
	}

	if len(having.Nodes) == 0 {
		res = sq.Select("s.id AS sample_id").From("sample s").Where(candidate)
		for _, p := range props {
			res = res.Where(p)
		}
		return res, nil
	}

	inner := sq.Select("s.id AS sample_id").From("sample s").
		LeftJoin("alignment a ON a.seqhash = s.seqhash").
		LeftJoin("alignment2variant av ON av.alignment_id = a.id").
		LeftJoin("variant v ON v.id = av.variant_id").
		Where(candidate)
	for _, col := range m.cols {
		inner = inner.Column(col)
	}
	for _, p := range props {
		inner = inner.Where(p)
	}
	inner = inner.GroupBy("s.id")

	hsql, hargs, err := Render(having)
	if err != nil {
		return res, RenderError(err)
	}
	res = sq.Select("agg.sample_id").FromSelect(inner, "agg").
		Where(sq.Expr(hsql, hargs...))
	return res, nil
}

// mutationNode registers conditions of a mutation and returns the
// predicate over their aggregate columns.
func (c *Compiler) mutationNode(
	m *matcher,
	mut profile.Mutation,
	ref *reference.Reference,
) (Node, error) {
	conds, err := c.mutationConditions(mut, ref)
	if err != nil {
		return nil, err
	}

	op, val := profile.OpGe, int64(1)
	if mut.Negate {
		op, val = profile.OpEq, int64(0)
	}
	res := Combinator{Any: mut.Negate}
	for _, cond := range conds {
		col, err := m.column(cond)
		if err != nil {
			return nil, RenderError(err)
		}
		res.Nodes = append(res.Nodes, Term{Column: col, Op: op, Values: []any{val}})
	}
	return res, nil
}

// mutationConditions returns row conditions that all must be met by
// variants of a sample carrying the mutation. Multi-base substitutions
// give one condition per position.
func (c *Compiler) mutationConditions(
	mut profile.Mutation,
	ref *reference.Reference,
) ([]Condition, error) {
	elem, nt, err := c.resolve(mut, ref)
	if err != nil {
		return nil, err
	}
	element := Term{Column: "v.element_id", Op: profile.OpEq, Values: []any{elem.ID}}

	switch mut.Kind {
	case variant.Deletion:
		start, end := mut.Start-1, mut.End
		startOp, endOp := profile.OpLe, profile.OpGe
		if mut.PinStart {
			startOp = profile.OpEq
		}
		if mut.PinEnd {
			endOp = profile.OpEq
		}
		return []Condition{{Terms: []Term{
			element,
			{Column: "v.alt", Op: profile.OpEq, Values: []any{variant.DeletionAlt}},
			{Column: "v.pos_start", Op: startOp, Values: []any{start}},
			{Column: "v.pos_end", Op: endOp, Values: []any{end}},
		}}}, nil

	case variant.Insertion:
		if len(mut.Ref) != 1 {
			return nil, profile.SyntaxError(mut.Raw, "insertion needs a single anchor")
		}
		return []Condition{{Terms: []Term{
			element,
			{Column: "v.pos_start", Op: profile.OpEq, Values: []any{mut.Pos - 1}},
			{Column: "v.ref", Op: profile.OpEq, Values: []any{mut.Ref}},
			{Column: "v.alt", Op: profile.OpEq, Values: []any{mut.Alt}},
		}}}, nil
	}

	res := make([]Condition, 0, len(mut.Ref))
	for i := range len(mut.Ref) {
		part := mut
		part.Ref, part.Alt = mut.Ref[i:i+1], mut.Alt[i:i+1]
		if part.Ref == part.Alt {
			continue
		}
		var alts []any
		for _, a := range part.Alts(nt) {
			alts = append(alts, a)
		}
		res = append(res, Condition{Terms: []Term{
			element,
			{Column: "v.pos_start", Op: profile.OpEq, Values: []any{mut.Pos - 1 + i}},
			{Column: "v.ref", Op: profile.OpEq, Values: []any{part.Ref}},
			{Column: "v.alt", Op: profile.OpIn, Values: alts},
		}})
	}
	if len(res) == 0 {
		return nil, profile.SyntaxError(mut.Raw, "ALT equals REF")
	}
	return res, nil
}

// resolve finds the element a mutation refers to. It reports true for
// nucleotide terms.
func (c *Compiler) resolve(
	mut profile.Mutation,
	ref *reference.Reference,
) (*reference.Element, bool, error) {
	q := mut.Qualifiers
	switch len(q) {
	case 0:
		mol := c.cat.DefaultMolecule(ref)
		if mol == nil {
			return nil, false, UnknownElementError(mut.Raw, ref.Accession)
		}
		if src := c.cat.SourceElement(mol.ID); src != nil {
			return src, true, nil
		}
	case 1:
		if mol, err := c.cat.Molecule(q[0]); err == nil && mol.ReferenceID == ref.ID {
			if src := c.cat.SourceElement(mol.ID); src != nil {
				return src, true, nil
			}
		}
		if e, ok := c.cat.CDSBySymbolAny(ref, q[0]); ok {
			return e, false, nil
		}
		return nil, false, UnknownElementError(mut.Raw, q[0])
	default:
		mol, err := c.cat.Molecule(q[0])
		if err != nil || mol.ReferenceID != ref.ID {
			return nil, false, UnknownElementError(mut.Raw, q[0])
		}
		if e, ok := c.cat.CDSBySymbol(mol, q[1]); ok {
			return e, false, nil
		}
		return nil, false, UnknownElementError(mut.Raw, q[1])
	}
	return nil, false, UnknownElementError(mut.Raw, ref.Accession)
}

// propertyConditions builds sample restrictions from property filters.
// Positive values of a property are alternatives, negated values exclude
// samples.
func (c *Compiler) propertyConditions(
	props map[string][]string,
) ([]sq.Sqlizer, error) {
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	slices.Sort(names)

	var res []sq.Sqlizer
	for _, name := range names {
		p, ok := c.schema.Get(name)
		if !ok {
			return nil, profile.PropertyError(name, "", "unknown property")
		}
		col := "sp." + p.Column()
		pos := Combinator{Any: true}
		for _, raw := range props[name] {
			f, err := profile.ParseFilter(p, raw, c.lineages)
			if err != nil {
				return nil, err
			}
			t := Term{
				Column:  col,
				Op:      f.Op,
				Values:  f.Values,
				LowerOp: f.LowerOp,
				UpperOp: f.UpperOp,
			}
			if !f.Negate {
				pos.Nodes = append(pos.Nodes, t)
				continue
			}
			cond, err := propertySubquery("s.id NOT IN", p.ID, t)
			if err != nil {
				return nil, err
			}
			res = append(res, cond)
		}
		if len(pos.Nodes) == 0 {
			continue
		}
		cond, err := propertySubquery("s.id IN", p.ID, pos)
		if err != nil {
			return nil, err
		}
		res = append(res, cond)
	}
	return res, nil
}

func propertySubquery(prefix string, propID int, n Node) (sq.Sqlizer, error) {
	where, err := n.sqlizer()
	if err != nil {
		return nil, RenderError(err)
	}
	sub := sq.Select("sp.sample_id").From("sample2property sp").
		Where(sq.Eq{"sp.property_id": propID}).Where(where)
	sql, args, err := sub.ToSql()
	if err != nil {
		return nil, RenderError(err)
	}
	return sq.Expr(prefix+" ("+sql+")", args...), nil
}
