// Package profile parses the mutation profile notation and the property
// filter notation used in queries.
package profile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gnames/gnvariants/pkg/variant"
)

// Mutation is a parsed mutation term.
type Mutation struct {
	Raw    string
	Negate bool
	// Qualifiers are the optional `molecule:` and `gene:` prefixes in the
	// order they were written. Their meaning is resolved against a
	// reference catalog.
	Qualifiers []string
	Kind       variant.Kind

	// Substitutions and insertions.
	Ref string
	// Pos is the 1-based position as written.
	Pos int
	Alt string
	// Exact disables IUPAC expansion of Alt.
	Exact bool

	// Deletions, 1-based inclusive as written.
	Start    int
	End      int
	PinStart bool
	PinEnd   bool
}

var (
	snvRe = regexp.MustCompile(`^([A-Z*.]+)(\d+)(=?)([A-Z*]+)$`)
	delRe = regexp.MustCompile(`^(=?)(\d+)(?:-(=?)(\d+))?$`)
)

// ParseProfile splits a profile into whitespace or comma separated terms.
// Terms of a profile are a conjunction.
func ParseProfile(s string) ([]Mutation, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, SyntaxError(s, "empty profile")
	}
	res := make([]Mutation, 0, len(fields))
	for _, f := range fields {
		m, err := ParseMutation(f)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

// ParseMutation parses `[^][molecule:][gene:]REFposALT` and
// `[^][molecule:][gene:]del:[=]start[-[=]end]` terms.
func ParseMutation(raw string) (Mutation, error) {
	res := Mutation{Raw: raw}
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "^") {
		res.Negate = true
		s = s[1:]
	}
	if s == "" {
		return res, SyntaxError(raw, "empty term")
	}

	parts := strings.Split(s, ":")
	for i, p := range parts {
		if strings.EqualFold(p, "del") {
			if i != len(parts)-2 {
				return res, SyntaxError(raw, "deletion range is missing")
			}
			res.Qualifiers = parts[:i]
			if err := res.parseDeletion(parts[i+1]); err != nil {
				return res, err
			}
			return res, res.checkQualifiers()
		}
	}

	res.Qualifiers = parts[:len(parts)-1]
	if err := res.parseSNV(parts[len(parts)-1]); err != nil {
		return res, err
	}
	return res, res.checkQualifiers()
}

func (m *Mutation) checkQualifiers() error {
	if len(m.Qualifiers) > 2 {
		return SyntaxError(m.Raw, "too many qualifiers")
	}
	for _, q := range m.Qualifiers {
		if strings.TrimSpace(q) == "" {
			return SyntaxError(m.Raw, "empty qualifier")
		}
	}
	return nil
}

func (m *Mutation) parseDeletion(s string) error {
	match := delRe.FindStringSubmatch(s)
	if match == nil {
		return SyntaxError(m.Raw, "bad deletion range")
	}
	m.Kind = variant.Deletion
	m.PinStart = match[1] == "="
	var err error
	if m.Start, err = m.position(match[2]); err != nil {
		return err
	}
	m.End = m.Start
	if match[4] != "" {
		m.PinEnd = match[3] == "="
		if m.End, err = m.position(match[4]); err != nil {
			return err
		}
	} else {
		m.PinEnd = m.PinStart
	}
	if m.Start < 1 || m.End < m.Start {
		return SyntaxError(m.Raw, "deletion range is empty")
	}
	return nil
}

func (m *Mutation) position(s string) (int, error) {
	res, err := strconv.Atoi(s)
	if err != nil {
		return 0, SyntaxError(m.Raw, "bad position "+s)
	}
	return res, nil
}

func (m *Mutation) parseSNV(s string) error {
	match := snvRe.FindStringSubmatch(strings.ToUpper(s))
	if match == nil {
		return SyntaxError(m.Raw, "expected REF, position and ALT")
	}
	m.Ref = match[1]
	var err error
	if m.Pos, err = m.position(match[2]); err != nil {
		return err
	}
	m.Exact = match[3] == "="
	m.Alt = match[4]

	switch {
	case m.Ref == variant.Anchor:
		if m.Pos != 0 {
			return SyntaxError(m.Raw, "'.' anchor is only allowed at position 0")
		}
		m.Kind = variant.Insertion
	case m.Pos < 1:
		return SyntaxError(m.Raw, "positions start at 1")
	case len(m.Alt) > len(m.Ref):
		m.Kind = variant.Insertion
	case len(m.Alt) == len(m.Ref):
		m.Kind = variant.Substitution
	default:
		return SyntaxError(m.Raw, "ALT is shorter than REF, use del: notation")
	}
	return nil
}

// Alts returns alternative alleles matched by the term. A single
// nucleotide ALT is expanded by IUPAC codes unless it is exact. Amino acid
// terms are never expanded.
func (m Mutation) Alts(nucleotide bool) []string {
	if m.Exact || !nucleotide || len(m.Alt) != 1 {
		return []string{m.Alt}
	}
	return ExpandIUPAC(m.Alt[0])
}

// Key is the term without negation. Equal keys share one aggregate.
func (m Mutation) Key() string {
	return strings.TrimPrefix(strings.TrimSpace(m.Raw), "^")
}
