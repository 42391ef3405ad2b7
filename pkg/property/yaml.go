package property

import (
	"io"

	"gopkg.in/yaml.v3"
)

type definitions struct {
	Properties []*Property `yaml:"properties"`
	Lineages   []Lineage   `yaml:"lineages"`
}

// DecodeYAML reads `properties` and `lineages` sections of a definitions
// file. Other sections are ignored.
func DecodeYAML(r io.Reader) ([]*Property, []Lineage, error) {
	var defs definitions
	if err := yaml.NewDecoder(r).Decode(&defs); err != nil {
		return nil, nil, SchemaError("", err.Error())
	}
	return defs.Properties, defs.Lineages, nil
}
