package reference_test

import (
	"os"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toyCatalog(t *testing.T) *reference.Catalog {
	f, err := os.Open("testdata/toy.yaml")
	require.Nil(t, err)
	defer f.Close()
	cat, err := reference.LoadYAML(f)
	require.Nil(t, err)
	return cat
}

func TestLoadYAML(t *testing.T) {
	assert := assert.New(t)
	cat := toyCatalog(t)

	ref := cat.DefaultReference()
	require.NotNil(t, ref)
	assert.Equal("TOY.1", ref.Accession)
	assert.Equal(1, ref.ID)
	assert.Equal(1, ref.Translation)

	mol := cat.DefaultMolecule(ref)
	require.NotNil(t, mol)
	assert.Len(mol.Sequence, 30)
	assert.Equal("main", mol.Name())

	src := cat.SourceElement(mol.ID)
	require.NotNil(t, src)
	assert.Equal(mol.Sequence, src.Sequence)
	assert.Equal(1, src.ID)

	cds := cat.ElementsOf(mol.ID, reference.CDS)
	require.Len(t, cds, 3)
	assert.Equal("ATGAATAAA", cds[0].Sequence)
	assert.Equal("GAAACCATG", cds[1].Sequence)
	assert.Equal("AAGGTTG", cds[2].Sequence)
	assert.Equal(4, cds[2].Parts[1].Base)

	gene := cat.ElementsOf(mol.ID, reference.Gene)
	require.Len(t, gene, 1)
	assert.Equal(gene[0].ID, cds[0].ParentID)
}

func TestLookups(t *testing.T) {
	assert := assert.New(t)
	cat := toyCatalog(t)

	for _, k := range []string{"TOY.1", "main", "MAIN", "chr"} {
		mol, err := cat.Molecule(k)
		assert.Nil(err, k)
		assert.Equal("TOY.1", mol.Accession, k)
	}

	_, err := cat.Molecule("unknown")
	require.NotNil(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(errcode.MoleculeNotFoundError, gnErr.Code)

	_, err = cat.Reference("NOPE")
	assert.NotNil(err)

	mol, _ := cat.Molecule("main")
	e, ok := cat.CDSBySymbol(mol, "r2")
	assert.True(ok)
	assert.Equal("CDS2", e.Accession)

	_, ok = cat.CDSBySymbol(mol, "ORF9")
	assert.False(ok)

	e, ok = cat.Element(e.ID)
	assert.True(ok)
	assert.Equal("R2", e.Label())
}

func TestIntegrity(t *testing.T) {
	build := func(seq string, end int) *reference.Reference {
		mol := &reference.Molecule{
			Accession: "M1",
			Sequence:  "ACGTACGTAC",
			Elements: []*reference.Element{
				{
					Type:     reference.CDS,
					Symbol:   "X",
					Start:    0,
					End:      end,
					Sequence: seq,
				},
			},
		}
		return &reference.Reference{
			Accession: "R1",
			Molecules: []*reference.Molecule{mol},
		}
	}

	_, err := reference.NewCatalog(build("ACGTAC", 6))
	assert.Nil(t, err)

	_, err = reference.NewCatalog(build("ACGTAA", 6))
	require.NotNil(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReferenceIntegrityError, gnErr.Code)
	assert.Equal(t, errcode.ClassIntegrity, errcode.ClassOf(gnErr.Code))

	_, err = reference.NewCatalog(build("ACGTAC", 20))
	assert.NotNil(t, err)
}

func TestDecodeError(t *testing.T) {
	_, err := reference.DecodeYAML(strings.NewReader("references: [\n"))
	require.NotNil(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ReferenceDecodeError, gnErr.Code)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		msg, seq, res string
	}{
		{"start", "ATG", "M"},
		{"stop", "TAA", "*"},
		{"protein", "ATGAATAAA", "MNK"},
		{"partial codon", "ATGAA", "M"},
		{"ambiguous", "ANG", "X"},
		{"lower", "atg", "M"},
		{"N501Y ref", "AAT", "N"},
		{"N501Y alt", "TAT", "Y"},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, reference.Translate(v.seq), v.msg)
	}
}

func TestReverseComplement(t *testing.T) {
	assert.Equal(t, "CATG", reference.ReverseComplement("CATG"))
	assert.Equal(t, "GAAACCATG", reference.ReverseComplement("CATGGTTTC"))
	assert.Equal(t, "nTY", reference.ReverseComplement("RAn"))
}
