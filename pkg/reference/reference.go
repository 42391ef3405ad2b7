// Package reference keeps the in-memory model of reference genomes:
// references own molecules, molecules own annotated elements (source,
// gene, cds) and elements are composed of ordered parts.
package reference

// ElementType is the kind of an annotated element.
type ElementType string

const (
	Source ElementType = "source"
	Gene   ElementType = "gene"
	CDS    ElementType = "cds"
)

// Reference is a reference genome.
type Reference struct {
	ID          int    `yaml:"id"`
	Accession   string `yaml:"accession"`
	Description string `yaml:"description"`
	Organism    string `yaml:"organism"`
	// Translation is the NCBI genetic code id. Only the standard code (1)
	// is supported.
	Translation int  `yaml:"translation"`
	Standard    bool `yaml:"standard"`

	Molecules []*Molecule `yaml:"molecules"`
}

// Molecule is a chromosome or a genome segment of a reference.
type Molecule struct {
	ID          int    `yaml:"id"`
	ReferenceID int    `yaml:"-"`
	Accession   string `yaml:"accession"`
	// Alias is an alternative name used in FASTA headers and queries.
	Alias    string `yaml:"alias"`
	Symbol   string `yaml:"symbol"`
	Type     string `yaml:"type"`
	Segment  int    `yaml:"segment"`
	Standard bool   `yaml:"standard"`
	Sequence string `yaml:"sequence"`

	Elements []*Element `yaml:"elements"`
}

// Element is an annotated region of a molecule.
type Element struct {
	ID          int         `yaml:"id"`
	MoleculeID  int         `yaml:"-"`
	Type        ElementType `yaml:"type"`
	Accession   string      `yaml:"accession"`
	Symbol      string      `yaml:"symbol"`
	Description string      `yaml:"description"`
	// Start and End are 0-based half-open coordinates on the molecule.
	Start  int `yaml:"start"`
	End    int `yaml:"end"`
	Strand int `yaml:"strand"`
	// Sequence is the element sequence in transcription order. For
	// cds elements it is the coding sequence.
	Sequence string `yaml:"sequence"`
	ParentID int    `yaml:"parent_id"`
	// Parent is the symbol of the parent element as written in
	// definition files. It is resolved into ParentID by the catalog.
	Parent string `yaml:"parent"`
	Parts  []Part `yaml:"parts"`
}

// Part is a contiguous piece of a spliced element.
type Part struct {
	Start  int `yaml:"start"`
	End    int `yaml:"end"`
	Strand int `yaml:"strand"`
	// Base is the offset of the part inside the element sequence.
	Base int `yaml:"base"`
}

// Len returns the length of the part.
func (p Part) Len() int {
	return p.End - p.Start
}

// Len returns the length of the element sequence.
func (e *Element) Len() int {
	return len(e.Sequence)
}

// Label returns the symbol of an element, or its accession if symbol is
// empty.
func (e *Element) Label() string {
	if e.Symbol != "" {
		return e.Symbol
	}
	return e.Accession
}

// Name returns the alias of the molecule or its accession.
func (m *Molecule) Name() string {
	if m.Alias != "" {
		return m.Alias
	}
	return m.Accession
}
