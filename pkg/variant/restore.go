package variant

import (
	"strings"
)

// Restore replays variants onto the reference element sequence and returns
// the sample sequence. The order of variants does not matter.
func Restore(refSeq string, vars []Variant) (string, error) {
	return replay(refSeq, vars, false)
}

// RestoreAligned works like Restore, but keeps the sample aligned to the
// reference: deleted bases are shown as '-' and inserted bases are lower
// case.
func RestoreAligned(refSeq string, vars []Variant) (string, error) {
	return replay(refSeq, vars, true)
}

func replay(refSeq string, vars []Variant, aligned bool) (string, error) {
	slots := make([]string, len(refSeq))
	for i := range refSeq {
		slots[i] = refSeq[i : i+1]
	}
	ins := make([]string, len(refSeq))
	var prefix string

	for _, v := range vars {
		if v.Start < -1 || v.End > len(refSeq) || v.Start >= v.End {
			return "", ReplayError(v, "coordinates are outside of the element")
		}
		switch v.Kind() {
		case Deletion:
			if v.Start < 0 {
				return "", ReplayError(v, "deletion before the first base")
			}
			for i := v.Start; i < v.End; i++ {
				slots[i] = ""
				if aligned {
					slots[i] = "-"
				}
			}
		case Insertion:
			add := v.Inserted()
			if aligned {
				add = strings.ToLower(add)
			}
			if v.Start < 0 {
				prefix += add
				continue
			}
			ins[v.Start] += add
		default:
			if v.Start < 0 || v.Start+len(v.Alt) > len(refSeq) {
				return "", ReplayError(v, "substitution is outside of the element")
			}
			for k := range len(v.Alt) {
				slots[v.Start+k] = v.Alt[k : k+1]
			}
		}
	}

	var sb strings.Builder
	sb.Grow(len(refSeq) + len(prefix))
	sb.WriteString(prefix)
	for i := range slots {
		sb.WriteString(slots[i])
		sb.WriteString(ins[i])
	}
	return sb.String(), nil
}
