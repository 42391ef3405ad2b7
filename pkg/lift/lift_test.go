package lift_test

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/gnames/gnvariants/pkg/lift"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const molSeq = "ATGAATAAATAAGGCTTGACCCATGGTTTC"

func toyTable(t *testing.T) (*lift.Table, *reference.Catalog) {
	mol := &reference.Molecule{
		Accession: "TOY.1",
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
	return lift.BuildTable(cat, mol), cat
}

func TestBuildTable(t *testing.T) {
	assert := assert.New(t)
	tbl, cat := toyTable(t)
	src := cat.SourceElement(tbl.MoleculeID)
	assert.Equal(src.ID, tbl.SourceID)
	assert.Len(tbl.Rows, 18)
	assert.Equal("MNK", tbl.Proteins[2])
	assert.Equal("ETM", tbl.Proteins[3])

	rows := tbl.RowsAt(29)
	require.Len(t, rows, 1)
	assert.Equal(0, rows[0].Codon)
	assert.Equal(0, rows[0].CodonPos)
	assert.Equal(byte('G'), rows[0].RefBase)
	assert.Equal(byte('E'), rows[0].RefAA)

	assert.Empty(tbl.RowsAt(12))
}

func TestLiftSubstitution(t *testing.T) {
	tbl, _ := toyTable(t)

	tests := []struct {
		msg string
		nt  []variant.Variant
		res []variant.Variant
	}{
		{
			msg: "non-synonymous",
			nt:  []variant.Variant{variant.NewSubstitution(1, molSeq, 3, 'T')},
			res: []variant.Variant{{
				ElementID: 2, Start: 1, End: 2, Ref: "N", Alt: "Y",
				Label: "N2Y", PreRef: "M", ParentID: 1,
			}},
		},
		{
			msg: "synonymous",
			nt:  []variant.Variant{variant.NewSubstitution(1, molSeq, 8, 'G')},
		},
		{
			msg: "minus strand",
			nt:  []variant.Variant{variant.NewSubstitution(1, molSeq, 29, 'T')},
			res: []variant.Variant{{
				ElementID: 3, Start: 0, End: 1, Ref: "E", Alt: "K",
				Label: "E1K", ParentID: 1,
			}},
		},
		{
			msg: "outside of coding regions",
			nt:  []variant.Variant{variant.NewSubstitution(1, molSeq, 12, 'A')},
		},
		{
			msg: "two bases of one codon",
			nt: []variant.Variant{
				variant.NewSubstitution(1, molSeq, 4, 'C'),
				variant.NewSubstitution(1, molSeq, 3, 'C'),
			},
			res: []variant.Variant{{
				ElementID: 2, Start: 1, End: 2, Ref: "N", Alt: "P",
				Label: "N2P", PreRef: "M", ParentID: 1,
			}},
		},
	}

	for _, v := range tests {
		res := lift.Lift(v.nt, tbl)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestLiftDeletions(t *testing.T) {
	assert := assert.New(t)
	tbl, _ := toyTable(t)

	res := lift.Lift([]variant.Variant{variant.NewDeletion(1, molSeq, 3, 6)}, tbl)
	require.Len(t, res, 1)
	assert.Equal("del:2", res[0].Label)
	assert.Equal(" ", res[0].Alt)
	assert.False(res[0].Frameshift)

	// order of input does not matter for coalescing
	nt := []variant.Variant{
		variant.NewDeletion(1, molSeq, 6, 8),
		variant.NewDeletion(1, molSeq, 3, 6),
		variant.NewSubstitution(1, molSeq, 8, 'C'),
	}
	res = lift.Lift(nt, tbl)
	require.Len(t, res, 1)
	assert.Equal(1, res[0].Start)
	assert.Equal(3, res[0].End)
	assert.Equal("NK", res[0].Ref)
	assert.Equal("del:2-3", res[0].Label)

	res = lift.Lift([]variant.Variant{variant.NewDeletion(1, molSeq, 4, 5)}, tbl)
	require.Len(t, res, 1)
	assert.Equal("del:2", res[0].Label)
	assert.True(res[0].Frameshift)

	res = lift.Lift([]variant.Variant{variant.NewDeletion(1, molSeq, 0, 3)}, tbl)
	assert.Empty(res, "terminal deletions are not lifted")
}

func TestLiftInsertion(t *testing.T) {
	tbl, _ := toyTable(t)
	res := lift.Lift([]variant.Variant{variant.NewInsertion(1, molSeq, 5, "GGG")}, tbl)
	require.Len(t, res, 1)
	assert.Equal(t, "NG", res[0].Alt)
	assert.Equal(t, "N2NG", res[0].Label)
	assert.False(t, res[0].Frameshift)
	assert.Equal(t, variant.Insertion, res[0].Kind())

	// first amino acid is unchanged, the frameshift is still reported
	res = lift.Lift([]variant.Variant{variant.NewInsertion(1, molSeq, 5, "G")}, tbl)
	require.Len(t, res, 1)
	assert.Equal(t, "NX", res[0].Alt)
	assert.Equal(t, "N2NX", res[0].Label)
	assert.True(t, res[0].Frameshift)
}

func TestTableGob(t *testing.T) {
	tbl, _ := toyTable(t)
	var buf bytes.Buffer
	require.Nil(t, gob.NewEncoder(&buf).Encode(tbl))

	var got lift.Table
	require.Nil(t, gob.NewDecoder(&buf).Decode(&got))
	got.Index()
	assert.Equal(t, tbl.Rows, got.Rows)
	assert.Len(t, got.RowsAt(3), 1)
}
