package reference

import (
	"strings"
)

const (
	codonBases = "TCAG"
	// standard genetic code in TCAG order
	standardCode = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"
)

var codonTable = func() map[string]byte {
	res := make(map[string]byte, 64)
	var i int
	for _, b1 := range []byte(codonBases) {
		for _, b2 := range []byte(codonBases) {
			for _, b3 := range []byte(codonBases) {
				res[string([]byte{b1, b2, b3})] = standardCode[i]
				i++
			}
		}
	}
	return res
}()

var complements = map[byte]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G', 'U': 'A',
	'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N', '-': '-',
}

// TranslateCodon returns the amino acid of a codon using the standard
// genetic code. Codons with unknown or ambiguous bases translate to 'X'.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[strings.ToUpper(codon)]; ok {
		return aa
	}
	return 'X'
}

// Translate converts a nucleotide sequence into a protein sequence.
// Trailing incomplete codon is ignored.
func Translate(seq string) string {
	n := len(seq) / 3
	res := make([]byte, n)
	for i := range n {
		res[i] = TranslateCodon(seq[i*3 : i*3+3])
	}
	return string(res)
}

// Complement returns the complementary base. Unknown characters are
// returned as 'N'.
func Complement(b byte) byte {
	lower := b >= 'a' && b <= 'z'
	if lower {
		b -= 'a' - 'A'
	}
	c, ok := complements[b]
	if !ok {
		return 'N'
	}
	if lower {
		c += 'a' - 'A'
	}
	return c
}

// ReverseComplement returns the reverse complement of a nucleotide sequence.
func ReverseComplement(seq string) string {
	n := len(seq)
	res := make([]byte, n)
	for i := range n {
		res[n-1-i] = Complement(seq[i])
	}
	return string(res)
}

// CodonTable returns a copy of the standard genetic code.
func CodonTable() map[string]byte {
	res := make(map[string]byte, len(codonTable))
	for k, v := range codonTable {
		res[k] = v
	}
	return res
}
