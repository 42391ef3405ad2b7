// Package variant describes nucleotide and amino-acid differences between a
// sample and a reference element, and replays them to restore sequences.
package variant

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DeletionAlt is the alternative allele of an observed deletion.
	DeletionAlt = " "
	// TerminalAlt marks reference ends not covered by the sample. Such
	// deletions mean "not observed" rather than "differs".
	TerminalAlt = "."
	// Anchor is the synthetic reference symbol of an insertion placed
	// before the first reference base.
	Anchor = "."
)

// Kind is the type of a variant.
type Kind int

const (
	Substitution Kind = iota
	Deletion
	Insertion
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Deletion:
		return "deletion"
	case Insertion:
		return "insertion"
	default:
		return "substitution"
	}
}

// Variant is a difference between a sample and an element of a reference.
// Coordinates are 0-based half-open offsets inside the element: nucleotides
// for source elements, codons for cds elements.
type Variant struct {
	ElementID int
	Start     int
	End       int
	Ref       string
	Alt       string
	Label     string
	// PreRef is the reference symbol right before Start.
	PreRef string
	// ParentID is the id of the source element the amino acid variant was
	// lifted from. It is 0 for nucleotide variants.
	ParentID   int
	Frameshift bool
}

// Kind detects the kind of a variant from its alleles.
func (v Variant) Kind() Kind {
	switch {
	case v.Alt == DeletionAlt || v.Alt == TerminalAlt:
		return Deletion
	case v.Ref == Anchor || len(v.Alt) > len(v.Ref):
		return Insertion
	default:
		return Substitution
	}
}

// IsTerminal is true for deletions of reference ends not covered by a
// sample.
func (v Variant) IsTerminal() bool {
	return v.Alt == TerminalAlt
}

// Inserted returns bases inserted after the anchor.
func (v Variant) Inserted() string {
	if v.Kind() != Insertion {
		return ""
	}
	if v.Ref == Anchor {
		return v.Alt
	}
	return v.Alt[len(v.Ref):]
}

// Key is the deduplication key of a variant. The same key in two samples
// refers to the same stored row.
func (v Variant) Key() string {
	return strings.Join([]string{
		strconv.Itoa(v.ElementID),
		strconv.Itoa(v.Start),
		strconv.Itoa(v.End),
		v.Ref,
		v.Alt,
	}, "|")
}

// SubstitutionLabel builds `{ref}{pos}{alt}` labels with 1-based position.
func SubstitutionLabel(ref string, start int, alt string) string {
	return fmt.Sprintf("%s%d%s", ref, start+1, alt)
}

// DeletionLabel builds `del:{start+1}` or `del:{start+1}-{end}` labels.
func DeletionLabel(start, end int) string {
	if end-start == 1 {
		return fmt.Sprintf("del:%d", start+1)
	}
	return fmt.Sprintf("del:%d-%d", start+1, end)
}

// InsertionLabel builds labels of insertions. A leading insertion is
// labelled `.0{inserted}`.
func InsertionLabel(ref string, start int, alt string) string {
	if ref == Anchor {
		return Anchor + "0" + alt
	}
	return SubstitutionLabel(ref, start, alt)
}

// NewDeletion creates a deletion of element positions [start, end).
// Deletions touching either end of the element get the terminal marker.
func NewDeletion(elementID int, refSeq string, start, end int) Variant {
	alt := DeletionAlt
	if start == 0 || end == len(refSeq) {
		alt = TerminalAlt
	}
	return Variant{
		ElementID:  elementID,
		Start:      start,
		End:        end,
		Ref:        refSeq[start:end],
		Alt:        alt,
		Label:      DeletionLabel(start, end),
		PreRef:     preRef(refSeq, start),
		Frameshift: (end-start)%3 != 0,
	}
}

// NewSubstitution creates a single base substitution.
func NewSubstitution(elementID int, refSeq string, pos int, alt byte) Variant {
	ref := refSeq[pos : pos+1]
	return Variant{
		ElementID: elementID,
		Start:     pos,
		End:       pos + 1,
		Ref:       ref,
		Alt:       string(alt),
		Label:     SubstitutionLabel(ref, pos, string(alt)),
		PreRef:    preRef(refSeq, pos),
	}
}

// NewInsertion creates an insertion after the reference base at anchor.
// Anchor -1 means insertion before the first base.
func NewInsertion(elementID int, refSeq string, anchor int, ins string) Variant {
	res := Variant{
		ElementID:  elementID,
		Start:      anchor,
		End:        anchor + 1,
		Frameshift: len(ins)%3 != 0,
	}
	if anchor < 0 {
		res.Ref = Anchor
		res.Alt = ins
	} else {
		res.Ref = refSeq[anchor : anchor+1]
		res.Alt = res.Ref + ins
		res.PreRef = preRef(refSeq, anchor)
	}
	res.Label = InsertionLabel(res.Ref, res.Start, res.Alt)
	return res
}

func preRef(refSeq string, start int) string {
	if start <= 0 || start > len(refSeq) {
		return ""
	}
	return refSeq[start-1 : start]
}
