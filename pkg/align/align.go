// Package align implements banded global pairwise alignment of a sample
// sequence against a reference element and decodes the resulting edit
// script into variants. This is a pure package, alignment is computation,
// not I/O.
package align

import (
	"math"
	"strconv"
	"strings"
)

// Op is an edit script operation.
type Op byte

const (
	Match    Op = '='
	Mismatch Op = 'X'
	// Insertion consumes query bases only.
	Insertion Op = 'I'
	// Deletion consumes reference bases only.
	Deletion Op = 'D'
)

// Step is a run of identical operations.
type Step struct {
	Op  Op
	Len int
}

// EditScript is the result of an alignment.
type EditScript struct {
	Steps []Step
	// QueryAln and RefAln are gapped aligned sequences of equal length.
	QueryAln string
	RefAln   string
	Score    int
}

// CIGAR renders the edit script in extended CIGAR notation, for example
// `4=1X1=2D2=`.
func (es EditScript) CIGAR() string {
	var sb strings.Builder
	for _, s := range es.Steps {
		sb.WriteString(strconv.Itoa(s.Len))
		sb.WriteByte(byte(s.Op))
	}
	return sb.String()
}

const (
	// DefaultBand is the minimal half-width of the band.
	DefaultBand = 64
	// DefaultMaxCells limits the size of the traceback matrix.
	DefaultMaxCells = 1 << 28

	gapChar = '-'
	neg     = math.MinInt32 / 2
)

const (
	dirStop byte = iota
	dirDiag
	dirUp
	dirLeft
)

// Aligner keeps scoring parameters and reusable dynamic programming
// buffers. An Aligner is not safe for concurrent use, use Pool for that.
type Aligner struct {
	Match    int32
	Mismatch int32
	Gap      int32
	// Band is the minimal half-width of the band around the main diagonal.
	// It is widened by the difference in sequence lengths.
	Band int
	// MaxCells limits memory used by the traceback matrix.
	MaxCells int

	dirs       []byte
	prev, curr []int32
}

// New creates an Aligner with linear gap penalty.
func New(band int) *Aligner {
	if band <= 0 {
		band = DefaultBand
	}
	return &Aligner{
		Match:    2,
		Mismatch: -1,
		Gap:      -2,
		Band:     band,
		MaxCells: DefaultMaxCells,
	}
}

// Align is a convenience function that aligns two sequences with a new
// default Aligner.
func Align(query, ref string) (EditScript, error) {
	return New(DefaultBand).Align(query, ref)
}

func (a *Aligner) score(r, q byte) int32 {
	switch {
	case r == q:
		return a.Match
	case r == 'N' || q == 'N':
		return 0
	default:
		return a.Mismatch
	}
}

// Align performs banded Needleman-Wunsch alignment of query against ref.
// Rows of the matrix follow the reference, columns follow the query, and
// only cells with diagonal offset inside the band are computed.
func (a *Aligner) Align(query, ref string) (EditScript, error) {
	n, m := len(ref), len(query)
	dlo := min(0, m-n) - a.Band
	dhi := max(0, m-n) + a.Band
	w := dhi - dlo + 1
	cells := (n + 1) * w
	if cells > a.MaxCells {
		return EditScript{}, TooLargeError(m, n, cells)
	}

	a.dirs = growBytes(a.dirs, cells)
	a.prev = growInts(a.prev, w)
	a.curr = growInts(a.curr, w)
	dirs, prev, curr := a.dirs, a.prev, a.curr

	for k := range w {
		j := dlo + k
		if j < 0 || j > m {
			prev[k] = neg
			continue
		}
		prev[k] = int32(j) * a.Gap
		dirs[k] = dirLeft
	}
	dirs[-dlo] = dirStop

	for i := 1; i <= n; i++ {
		row := i * w
		for k := range w {
			j := i + dlo + k
			if j < 0 || j > m {
				curr[k] = neg
				continue
			}
			if j == 0 {
				curr[k] = int32(i) * a.Gap
				dirs[row+k] = dirUp
				continue
			}

			best := prev[k] + a.score(ref[i-1], query[j-1])
			dir := dirDiag
			if k+1 < w && prev[k+1] > neg {
				if s := prev[k+1] + a.Gap; s > best {
					best, dir = s, dirUp
				}
			}
			if k > 0 && curr[k-1] > neg {
				if s := curr[k-1] + a.Gap; s > best {
					best, dir = s, dirLeft
				}
			}
			curr[k] = best
			dirs[row+k] = dir
		}
		prev, curr = curr, prev
	}
	score := prev[m-n-dlo]

	return a.traceback(query, ref, dlo, w, int(score)), nil
}

func (a *Aligner) traceback(query, ref string, dlo, w, score int) EditScript {
	n, m := len(ref), len(query)
	qAln := make([]byte, 0, max(n, m)+a.Band)
	rAln := make([]byte, 0, max(n, m)+a.Band)
	ops := make([]Op, 0, max(n, m)+a.Band)

	i, j := n, m
	for i > 0 || j > 0 {
		switch a.dirs[i*w+j-i-dlo] {
		case dirDiag:
			i--
			j--
			qAln = append(qAln, query[j])
			rAln = append(rAln, ref[i])
			if query[j] == ref[i] {
				ops = append(ops, Match)
			} else {
				ops = append(ops, Mismatch)
			}
		case dirUp:
			i--
			qAln = append(qAln, gapChar)
			rAln = append(rAln, ref[i])
			ops = append(ops, Deletion)
		default:
			j--
			qAln = append(qAln, query[j])
			rAln = append(rAln, gapChar)
			ops = append(ops, Insertion)
		}
	}

	reverse(qAln)
	reverse(rAln)
	reverse(ops)

	return EditScript{
		Steps:    compress(ops),
		QueryAln: string(qAln),
		RefAln:   string(rAln),
		Score:    score,
	}
}

func compress(ops []Op) []Step {
	var res []Step
	for _, op := range ops {
		if l := len(res); l > 0 && res[l-1].Op == op {
			res[l-1].Len++
			continue
		}
		res = append(res, Step{Op: op, Len: 1})
	}
	return res
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func growBytes(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	b = b[:n]
	clear(b)
	return b
}

func growInts(b []int32, n int) []int32 {
	if cap(b) < n {
		return make([]int32, n)
	}
	return b[:n]
}
