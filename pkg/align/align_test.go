package align_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/align"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/gnames/gnvariants/pkg/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ref10 = "ACGTACGTAC"

func TestAlign(t *testing.T) {
	tests := []struct {
		msg, query, cigar, qAln, rAln string
	}{
		{"identical", ref10, "10=", ref10, ref10},
		{"substitution", "ACGTTCGTAC", "4=1X5=", "ACGTTCGTAC", ref10},
		{
			"substitution and deletion", "ACGTTCAC", "4=1X1=2D2=",
			"ACGTTC--AC", ref10,
		},
		{"leading insertion", "GG" + ref10, "2I10=", "GG" + ref10, "--" + ref10},
		{"trailing insertion", ref10 + "TT", "10=2I", ref10 + "TT", ref10 + "--"},
	}

	for _, v := range tests {
		es, err := align.New(2).Align(v.query, ref10)
		require.Nil(t, err, v.msg)
		assert.Equal(t, v.cigar, es.CIGAR(), v.msg)
		assert.Equal(t, v.qAln, es.QueryAln, v.msg)
		assert.Equal(t, v.rAln, es.RefAln, v.msg)
	}
}

func TestAlignEmpty(t *testing.T) {
	es, err := align.Align("ACG", "")
	require.Nil(t, err)
	assert.Equal(t, "3I", es.CIGAR())

	es, err = align.Align("", "ACG")
	require.Nil(t, err)
	assert.Equal(t, "3D", es.CIGAR())
}

func TestAlignTooLarge(t *testing.T) {
	a := align.New(2)
	a.MaxCells = 10
	_, err := a.Align(ref10, ref10)
	require.NotNil(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ImportAlignError, gnErr.Code)
}

func TestExtractVariants(t *testing.T) {
	es, err := align.New(2).Align("ACGTTCAC", ref10)
	require.Nil(t, err)
	vars, err := align.ExtractVariants(es, "ACGTTCAC", ref10, 7)
	require.Nil(t, err)
	require.Len(t, vars, 2)

	assert.Equal(t, variant.Variant{
		ElementID: 7, Start: 4, End: 5, Ref: "A", Alt: "T",
		Label: "A5T", PreRef: "T",
	}, vars[0])
	assert.Equal(t, variant.Variant{
		ElementID: 7, Start: 6, End: 8, Ref: "GT", Alt: " ",
		Label: "del:7-8", PreRef: "C", Frameshift: true,
	}, vars[1])

	res, err := variant.Restore(ref10, vars)
	require.Nil(t, err)
	assert.Equal(t, "ACGTTCAC", res)
}

// Edits placed at the very first and the very last position of the
// reference.
func TestExtractVariantsEnds(t *testing.T) {
	tests := []struct {
		msg   string
		query string
		steps []align.Step
		res   []variant.Variant
	}{
		{
			msg:   "insertion and substitution first, deletion last",
			query: "GGTCGTACGTA",
			steps: []align.Step{
				{Op: align.Insertion, Len: 2},
				{Op: align.Mismatch, Len: 1},
				{Op: align.Match, Len: 8},
				{Op: align.Deletion, Len: 1},
			},
			res: []variant.Variant{
				{
					Start: -1, End: 0, Ref: ".", Alt: "GG", Label: ".0GG",
					Frameshift: true,
				},
				{Start: 0, End: 1, Ref: "A", Alt: "T", Label: "A1T"},
				{
					Start: 9, End: 10, Ref: "C", Alt: ".", Label: "del:10",
					PreRef: "A", Frameshift: true,
				},
			},
		},
		{
			msg:   "deletion first, substitution and insertion last",
			query: "CGTACGTAGTT",
			steps: []align.Step{
				{Op: align.Deletion, Len: 1},
				{Op: align.Match, Len: 8},
				{Op: align.Mismatch, Len: 1},
				{Op: align.Insertion, Len: 2},
			},
			res: []variant.Variant{
				{
					Start: 0, End: 1, Ref: "A", Alt: ".", Label: "del:1",
					Frameshift: true,
				},
				{Start: 9, End: 10, Ref: "C", Alt: "G", Label: "C10G", PreRef: "A"},
				{
					Start: 9, End: 10, Ref: "C", Alt: "CTT", Label: "C10CTT",
					PreRef: "A", Frameshift: true,
				},
			},
		},
	}

	for _, v := range tests {
		es := align.EditScript{Steps: v.steps}
		vars, err := align.ExtractVariants(es, v.query, ref10, 0)
		require.Nil(t, err, v.msg)
		assert.Equal(t, v.res, vars, v.msg)

		seq, err := variant.Restore(ref10, vars)
		require.Nil(t, err, v.msg)
		assert.Equal(t, v.query, seq, v.msg)
	}
}

func TestExtractVariantsLeadingInsertionOffset(t *testing.T) {
	query := "TT" + "ACGTAC" + "AC"
	es, err := align.New(4).Align(query, ref10)
	require.Nil(t, err)
	vars, err := align.ExtractVariants(es, query, ref10, 1)
	require.Nil(t, err)

	seq, err := variant.Restore(ref10, vars)
	require.Nil(t, err)
	assert.Equal(t, query, seq)

	var labels []string
	for _, v := range vars {
		labels = append(labels, v.Label)
	}
	assert.Contains(t, labels, ".0TT")
	assert.Contains(t, labels, "del:7-8")
}

// Random references with random edits, including edits at both ends,
// must restore to the query after alignment and extraction.
func TestExtractVariantsRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	aln := align.New(32)
	for i := range 3000 {
		ref := randomSeq(rnd, 20+rnd.Intn(180))
		query := randomEdits(rnd, ref)

		es, err := aln.Align(query, ref)
		require.Nil(t, err, "case %d", i)
		vars, err := align.ExtractVariants(es, query, ref, 1)
		require.Nil(t, err, "case %d", i)
		seq, err := variant.Restore(ref, vars)
		require.Nil(t, err, "case %d", i)
		require.Equal(t, query, seq, "case %d: ref %s", i, ref)
	}
}

func randomSeq(rnd *rand.Rand, n int) string {
	const bases = "ACGT"
	b := make([]byte, n)
	for i := range b {
		b[i] = bases[rnd.Intn(len(bases))]
	}
	return string(b)
}

// randomEdits applies up to five substitutions, insertions or deletions.
// Every fourth edit is placed at the start or at the end of the sequence.
func randomEdits(rnd *rand.Rand, ref string) string {
	b := []byte(ref)
	edits := 1 + rnd.Intn(5)
	for k := range edits {
		pos := rnd.Intn(len(b))
		if k%4 == 0 {
			pos = 0
			if rnd.Intn(2) == 1 {
				pos = len(b) - 1
			}
		}
		switch rnd.Intn(3) {
		case 0:
			alt := randomSeq(rnd, 1)[0]
			for alt == b[pos] {
				alt = randomSeq(rnd, 1)[0]
			}
			b[pos] = alt
		case 1:
			ins := []byte(randomSeq(rnd, 1+rnd.Intn(4)))
			if rnd.Intn(2) == 1 {
				pos++
			}
			b = append(b[:pos], append(ins, b[pos:]...)...)
		default:
			n := min(1+rnd.Intn(4), len(b)-pos, len(b)-10)
			if n > 0 {
				b = append(b[:pos], b[pos+n:]...)
			}
		}
	}
	return string(b)
}

func TestExtractVariantsBadScript(t *testing.T) {
	es := align.EditScript{Steps: []align.Step{{Op: align.Match, Len: 4}}}
	_, err := align.ExtractVariants(es, "ACG", ref10, 1)
	assert.NotNil(t, err)
}

func TestPool(t *testing.T) {
	pool := align.NewPool(2, 4)
	defer pool.Close()

	queries := []string{ref10, "ACGTTCAC", "GG" + ref10, ref10 + "TT"}
	var wg sync.WaitGroup
	res := make([]string, len(queries))
	for i, q := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			es, err := pool.Align(q, ref10)
			if err == nil {
				res[i] = es.CIGAR()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"10=", "4=1X1=2D2=", "2I10=", "10=2I"}, res)
}
