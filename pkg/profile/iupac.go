package profile

// bit mask per nucleotide code
var iupac = map[byte]uint8{
	'A': 1 << 0,
	'C': 1 << 1,
	'G': 1 << 2,
	'T': 1 << 3,
	'R': (1 << 0) | (1 << 2),
	'Y': (1 << 1) | (1 << 3),
	'S': (1 << 1) | (1 << 2),
	'W': (1 << 0) | (1 << 3),
	'K': (1 << 2) | (1 << 3),
	'M': (1 << 0) | (1 << 1),
	'B': (1 << 1) | (1 << 2) | (1 << 3),
	'D': (1 << 0) | (1 << 2) | (1 << 3),
	'H': (1 << 0) | (1 << 1) | (1 << 3),
	'V': (1 << 0) | (1 << 1) | (1 << 2),
	'N': (1 << 0) | (1 << 1) | (1 << 2) | (1 << 3),
}

var concrete = []byte("ACGT")

// ExpandIUPAC returns concrete bases matched by a nucleotide code. Concrete
// bases and unknown symbols expand to themselves.
func ExpandIUPAC(code byte) []string {
	m, ok := iupac[code]
	if !ok {
		return []string{string(code)}
	}
	var res []string
	for _, b := range concrete {
		if m&iupac[b] != 0 {
			res = append(res, string(b))
		}
	}
	return res
}
