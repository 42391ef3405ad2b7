package align

import (
	"github.com/gnames/gnvariants/pkg/variant"
)

// ExtractVariants walks the edit script with independent query and
// reference cursors and decodes it into nucleotide variants of an element.
//
// Substitution runs give one variant per position. Deletion runs give one
// variant per run. Insertion runs are anchored at the preceding reference
// base, or at the synthetic '.' anchor when they precede the first base.
func ExtractVariants(
	es EditScript,
	query, ref string,
	elementID int,
) ([]variant.Variant, error) {
	var res []variant.Variant
	var qi, ri int
	for _, s := range es.Steps {
		switch s.Op {
		case Match:
			qi += s.Len
			ri += s.Len
		case Mismatch:
			if qi+s.Len > len(query) || ri+s.Len > len(ref) {
				return nil, ScriptError(es.CIGAR())
			}
			for k := range s.Len {
				v := variant.NewSubstitution(elementID, ref, ri+k, query[qi+k])
				res = append(res, v)
			}
			qi += s.Len
			ri += s.Len
		case Deletion:
			if ri+s.Len > len(ref) {
				return nil, ScriptError(es.CIGAR())
			}
			res = append(res, variant.NewDeletion(elementID, ref, ri, ri+s.Len))
			ri += s.Len
		case Insertion:
			if qi+s.Len > len(query) {
				return nil, ScriptError(es.CIGAR())
			}
			ins := query[qi : qi+s.Len]
			res = append(res, variant.NewInsertion(elementID, ref, ri-1, ins))
			qi += s.Len
		}
	}
	if qi != len(query) || ri != len(ref) {
		return nil, ScriptError(es.CIGAR())
	}
	return res, nil
}
