package lift

import (
	"cmp"
	"slices"
	"strings"

	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/variant"
)

type codonKey struct {
	elementID int
	codon     int
}

// codon is a working triplet. Deleted positions are dropped, inserted
// bases are appended after their position.
type codon struct {
	symbol     string
	base       [3]string
	ins        [3]string
	deleted    [3]bool
	frameshift bool
}

func (c *codon) join() string {
	var sb strings.Builder
	for i := range 3 {
		if !c.deleted[i] {
			sb.WriteString(c.base[i])
		}
		sb.WriteString(c.ins[i])
	}
	return sb.String()
}

// Lift applies nucleotide variants of the source element to codons of every
// coding element of the table and returns amino acid variants. Only codons
// whose translation changed are reported. Adjacent amino acid deletions are
// coalesced into ranged deletions. The order of input variants does not
// matter. Terminal deletions are not lifted, they mean the region was not
// observed.
func Lift(nt []variant.Variant, t *Table) []variant.Variant {
	idx := t.index
	if idx == nil {
		idx = buildIndex(t.Rows)
	}
	rowsAt := func(pos int) []Row {
		ii := idx[pos]
		res := make([]Row, len(ii))
		for i, v := range ii {
			res[i] = t.Rows[v]
		}
		return res
	}

	codons := make(map[codonKey]*codon)
	get := func(r Row) *codon {
		k := codonKey{r.ElementID, r.Codon}
		if c, ok := codons[k]; ok {
			return c
		}
		seq := t.Sequences[r.ElementID][r.Codon*3 : r.Codon*3+3]
		c := &codon{symbol: r.Symbol}
		for i := range 3 {
			c.base[i] = seq[i : i+1]
		}
		codons[k] = c
		return c
	}

	for _, v := range nt {
		if v.IsTerminal() {
			continue
		}
		switch v.Kind() {
		case variant.Substitution:
			for k := range len(v.Alt) {
				for _, r := range rowsAt(v.Start + k) {
					b := v.Alt[k]
					if r.Strand < 0 {
						b = reference.Complement(b)
					}
					get(r).base[r.CodonPos] = string(b)
				}
			}
		case variant.Deletion:
			fs := (v.End-v.Start)%3 != 0
			for pos := v.Start; pos < v.End; pos++ {
				for _, r := range rowsAt(pos) {
					c := get(r)
					c.deleted[r.CodonPos] = true
					c.frameshift = c.frameshift || fs
				}
			}
		case variant.Insertion:
			ins := v.Inserted()
			fs := len(ins)%3 != 0
			for _, r := range rowsAt(v.Start) {
				if r.Strand < 0 {
					continue
				}
				c := get(r)
				c.ins[r.CodonPos] += ins
				c.frameshift = c.frameshift || fs
			}
			// on minus strand the inserted bases precede the anchor in
			// transcription order, they follow the next molecule base.
			for _, r := range rowsAt(v.Start + 1) {
				if r.Strand > 0 {
					continue
				}
				c := get(r)
				c.ins[r.CodonPos] += reference.ReverseComplement(ins)
				c.frameshift = c.frameshift || fs
			}
		}
	}

	var res []variant.Variant
	for k, c := range codons {
		if v, ok := t.aaVariant(k, c); ok {
			res = append(res, v)
		}
	}
	return coalesce(res)
}

func (t *Table) aaVariant(k codonKey, c *codon) (variant.Variant, bool) {
	prot := t.Proteins[k.elementID]
	refAA := prot[k.codon : k.codon+1]
	res := variant.Variant{
		ElementID:  k.elementID,
		Start:      k.codon,
		End:        k.codon + 1,
		Ref:        refAA,
		ParentID:   t.SourceID,
		Frameshift: c.frameshift,
	}
	if k.codon > 0 {
		res.PreRef = prot[k.codon-1 : k.codon]
	}

	joined := c.join()
	switch {
	case len(joined) < 3:
		// partial codons are left by frameshifting deletions
		res.Alt = variant.DeletionAlt
		res.Label = variant.DeletionLabel(res.Start, res.End)
		res.Frameshift = res.Frameshift || len(joined) > 0
		return res, true
	case len(joined) == 3:
		alt := reference.Translate(joined)
		if alt == refAA {
			return res, false
		}
		res.Alt = alt
		res.Label = variant.SubstitutionLabel(refAA, res.Start, alt)
		return res, true
	default:
		alt := reference.Translate(joined)
		if len(joined)%3 != 0 {
			// leftover bases of a frameshifting insertion
			alt += "X"
		}
		if alt == refAA {
			return res, false
		}
		if alt[:1] != refAA && len(alt) == 1 {
			res.Alt = alt
			res.Label = variant.SubstitutionLabel(refAA, res.Start, alt)
			return res, true
		}
		res.Alt = alt
		res.Label = variant.InsertionLabel(refAA, res.Start, alt)
		return res, true
	}
}

// coalesce sorts amino acid variants and merges adjacent deletions of the
// same element into ranged deletions.
func coalesce(vars []variant.Variant) []variant.Variant {
	slices.SortFunc(vars, func(a, b variant.Variant) int {
		return cmp.Or(
			cmp.Compare(a.ElementID, b.ElementID),
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(a.Kind(), b.Kind()),
			cmp.Compare(a.Alt, b.Alt),
		)
	})

	var res []variant.Variant
	for _, v := range vars {
		l := len(res)
		if l > 0 && v.Kind() == variant.Deletion {
			prev := &res[l-1]
			if prev.Kind() == variant.Deletion && prev.ElementID == v.ElementID &&
				prev.End == v.Start {
				prev.End = v.End
				prev.Ref += v.Ref
				prev.Label = variant.DeletionLabel(prev.Start, prev.End)
				prev.Frameshift = prev.Frameshift || v.Frameshift
				continue
			}
		}
		res = append(res, v)
	}
	return res
}
