package reference

import (
	"io"

	"github.com/gnames/gnvariants/pkg/seqhash"
	"gopkg.in/yaml.v3"
)

type definitions struct {
	References []*Reference `yaml:"references"`
}

// DecodeYAML reads reference definitions from a YAML document with a
// top-level `references` list. Sequences may be split over several lines.
func DecodeYAML(r io.Reader) ([]*Reference, error) {
	var defs definitions
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&defs); err != nil {
		return nil, DecodeError(err)
	}
	for _, ref := range defs.References {
		for _, mol := range ref.Molecules {
			mol.Sequence = seqhash.Normalize(mol.Sequence)
			for _, e := range mol.Elements {
				e.Sequence = seqhash.Normalize(e.Sequence)
			}
		}
	}
	return defs.References, nil
}

// LoadYAML decodes reference definitions and builds a validated Catalog.
func LoadYAML(r io.Reader) (*Catalog, error) {
	refs, err := DecodeYAML(r)
	if err != nil {
		return nil, err
	}
	return NewCatalog(refs...)
}
