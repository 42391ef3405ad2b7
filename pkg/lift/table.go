// Package lift projects nucleotide variants onto codons of coding elements
// and derives amino acid variants.
package lift

import (
	"github.com/gnames/gnvariants/pkg/reference"
)

// Row maps one molecule position to a codon of a coding element.
type Row struct {
	ElementID int
	Symbol    string
	// Pos is the position on the molecule (source element coordinate).
	Pos int
	// Codon is the 0-based codon index inside the element.
	Codon int
	// CodonPos is the position inside the codon, 0..2.
	CodonPos int
	Strand   int
	// RefBase is the reference base in transcription orientation.
	RefBase byte
	RefAA   byte
}

// Table is the lift table of one molecule. It is gob-encodable, call
// Index after decoding.
type Table struct {
	MoleculeID int
	SourceID   int
	Rows       []Row
	// Sequences are coding sequences by element id.
	Sequences map[int]string
	// Proteins are translated coding sequences by element id.
	Proteins map[int]string

	index map[int][]int
}

// BuildTable creates a lift table for every cds element of a molecule.
// Positions of a trailing incomplete codon are left out.
func BuildTable(cat *reference.Catalog, mol *reference.Molecule) *Table {
	res := &Table{
		MoleculeID: mol.ID,
		Sequences:  make(map[int]string),
		Proteins:   make(map[int]string),
	}
	if src := cat.SourceElement(mol.ID); src != nil {
		res.SourceID = src.ID
	}

	for _, cds := range cat.ElementsOf(mol.ID, reference.CDS) {
		codons := cds.Len() / 3
		prot := reference.Translate(cds.Sequence)
		res.Sequences[cds.ID] = cds.Sequence
		res.Proteins[cds.ID] = prot
		for _, p := range cds.Parts {
			for off := range p.Len() {
				eo := p.Base + off
				codon := eo / 3
				if codon >= codons {
					break
				}
				pos := p.Start + off
				if p.Strand < 0 {
					pos = p.End - 1 - off
				}
				res.Rows = append(res.Rows, Row{
					ElementID: cds.ID,
					Symbol:    cds.Symbol,
					Pos:       pos,
					Codon:     codon,
					CodonPos:  eo % 3,
					Strand:    p.Strand,
					RefBase:   cds.Sequence[eo],
					RefAA:     prot[codon],
				})
			}
		}
	}
	res.Index()
	return res
}

// Index rebuilds the position index of the table.
func (t *Table) Index() {
	t.index = buildIndex(t.Rows)
}

// RowsAt returns all rows covering a molecule position. Overlapping coding
// elements give several rows.
func (t *Table) RowsAt(pos int) []Row {
	idx := t.index
	if idx == nil {
		idx = buildIndex(t.Rows)
	}
	ii := idx[pos]
	res := make([]Row, len(ii))
	for i, v := range ii {
		res[i] = t.Rows[v]
	}
	return res
}

func buildIndex(rows []Row) map[int][]int {
	res := make(map[int][]int, len(rows))
	for i, r := range rows {
		res[r.Pos] = append(res[r.Pos], i)
	}
	return res
}
