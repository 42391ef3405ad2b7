package reference

import (
	"fmt"
	"slices"
	"strings"
)

// Catalog is a read-only index of references, molecules and elements.
// It is built once at startup and is safe for concurrent reads.
type Catalog struct {
	refs     []*Reference
	refByAcc map[string]*Reference
	mols     map[int]*Molecule
	molByKey map[string]*Molecule
	elems    map[int]*Element
	molElems map[int][]*Element
}

// NewCatalog indexes references, assigns missing ids, resolves parent
// symbols, creates missing source elements and validates every element
// against its molecule sequence.
func NewCatalog(refs ...*Reference) (*Catalog, error) {
	res := &Catalog{
		refs:     refs,
		refByAcc: make(map[string]*Reference),
		mols:     make(map[int]*Molecule),
		molByKey: make(map[string]*Molecule),
		elems:    make(map[int]*Element),
		molElems: make(map[int][]*Element),
	}

	res.assignIDs()

	for _, ref := range refs {
		if ref.Translation == 0 {
			ref.Translation = 1
		}
		res.refByAcc[ref.Accession] = ref
		for _, mol := range ref.Molecules {
			mol.ReferenceID = ref.ID
			mol.Sequence = strings.ToUpper(mol.Sequence)
			res.mols[mol.ID] = mol
			for _, k := range []string{mol.Accession, mol.Alias, mol.Symbol} {
				if k == "" {
					continue
				}
				k = strings.ToLower(k)
				if _, ok := res.molByKey[k]; !ok {
					res.molByKey[k] = mol
				}
			}
			for _, e := range mol.Elements {
				e.MoleculeID = mol.ID
				res.elems[e.ID] = e
				res.molElems[mol.ID] = append(res.molElems[mol.ID], e)
			}
		}
	}

	for _, mol := range res.mols {
		res.resolveParents(mol)
	}

	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Catalog) assignIDs() {
	var refID, molID, elemID int
	for _, ref := range c.refs {
		refID = max(refID, ref.ID)
		for _, mol := range ref.Molecules {
			molID = max(molID, mol.ID)
			for _, e := range mol.Elements {
				elemID = max(elemID, e.ID)
			}
		}
	}

	for _, ref := range c.refs {
		if ref.ID == 0 {
			refID++
			ref.ID = refID
		}
		for _, mol := range ref.Molecules {
			if mol.ID == 0 {
				molID++
				mol.ID = molID
			}
			if !hasSource(mol) {
				src := &Element{
					Type:      Source,
					Accession: mol.Accession,
					Symbol:    mol.Symbol,
					End:       len(mol.Sequence),
					Strand:    1,
					Sequence:  mol.Sequence,
				}
				mol.Elements = append([]*Element{src}, mol.Elements...)
			}
			for _, e := range mol.Elements {
				if e.ID == 0 {
					elemID++
					e.ID = elemID
				}
			}
		}
	}
}

func hasSource(mol *Molecule) bool {
	return slices.ContainsFunc(mol.Elements, func(e *Element) bool {
		return e.Type == Source
	})
}

func (c *Catalog) resolveParents(mol *Molecule) {
	for _, e := range c.molElems[mol.ID] {
		if e.ParentID != 0 || e.Parent == "" {
			continue
		}
		for _, p := range c.molElems[mol.ID] {
			if p != e && p.Type == Gene && p.Symbol == e.Parent {
				e.ParentID = p.ID
				break
			}
		}
	}
}

// Validate harmonizes parts of every element and checks that the element
// sequence equals the concatenation of its parts taken from the molecule
// source sequence. Elements without sequence receive the assembled one.
func (c *Catalog) Validate() error {
	for _, ref := range c.refs {
		if ref.Translation != 1 {
			return IntegrityError(ref.Accession,
				fmt.Sprintf("unsupported translation table %d", ref.Translation))
		}
		for _, mol := range ref.Molecules {
			for _, e := range mol.Elements {
				if err := harmonize(mol, e); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func harmonize(mol *Molecule, e *Element) error {
	if e.Strand == 0 {
		e.Strand = 1
	}
	if len(e.Parts) == 0 {
		e.Parts = []Part{{Start: e.Start, End: e.End, Strand: e.Strand}}
	}

	var sb strings.Builder
	var base int
	for i := range e.Parts {
		p := &e.Parts[i]
		if p.Strand == 0 {
			p.Strand = e.Strand
		}
		if p.Start < 0 || p.End > len(mol.Sequence) || p.Start >= p.End {
			return IntegrityError(e.Label(),
				fmt.Sprintf("part %d-%d is outside of molecule %s",
					p.Start, p.End, mol.Accession))
		}
		p.Base = base
		base += p.Len()
		seg := mol.Sequence[p.Start:p.End]
		if p.Strand < 0 {
			seg = ReverseComplement(seg)
		}
		sb.WriteString(seg)
	}

	seq := sb.String()
	if e.Sequence == "" {
		e.Sequence = seq
		return nil
	}
	e.Sequence = strings.ToUpper(e.Sequence)
	if e.Sequence != seq {
		return IntegrityError(e.Label(),
			"sequence differs from concatenated parts")
	}
	return nil
}

// References returns all references in load order.
func (c *Catalog) References() []*Reference {
	return c.refs
}

// Reference finds a reference by accession.
func (c *Catalog) Reference(acc string) (*Reference, error) {
	if ref, ok := c.refByAcc[acc]; ok {
		return ref, nil
	}
	return nil, NotFoundError(acc)
}

// DefaultReference returns the reference marked as standard, or the first
// one.
func (c *Catalog) DefaultReference() *Reference {
	for _, ref := range c.refs {
		if ref.Standard {
			return ref
		}
	}
	if len(c.refs) > 0 {
		return c.refs[0]
	}
	return nil
}

// Molecule finds a molecule by accession, alias or symbol. The match is
// case-insensitive.
func (c *Catalog) Molecule(key string) (*Molecule, error) {
	if mol, ok := c.molByKey[strings.ToLower(strings.TrimSpace(key))]; ok {
		return mol, nil
	}
	return nil, MoleculeNotFoundError(key)
}

// MoleculeByID returns a molecule by its id.
func (c *Catalog) MoleculeByID(id int) (*Molecule, bool) {
	mol, ok := c.mols[id]
	return mol, ok
}

// DefaultMolecule returns the standard molecule of a reference, or the
// first one.
func (c *Catalog) DefaultMolecule(ref *Reference) *Molecule {
	if ref == nil {
		return nil
	}
	for _, mol := range ref.Molecules {
		if mol.Standard {
			return mol
		}
	}
	if len(ref.Molecules) > 0 {
		return ref.Molecules[0]
	}
	return nil
}

// Element returns an element by id.
func (c *Catalog) Element(id int) (*Element, bool) {
	e, ok := c.elems[id]
	return e, ok
}

// ElementsOf returns elements of a given type on a molecule, in load order.
func (c *Catalog) ElementsOf(moleculeID int, tp ElementType) []*Element {
	var res []*Element
	for _, e := range c.molElems[moleculeID] {
		if e.Type == tp {
			res = append(res, e)
		}
	}
	return res
}

// SourceElement returns the source element of a molecule.
func (c *Catalog) SourceElement(moleculeID int) *Element {
	for _, e := range c.molElems[moleculeID] {
		if e.Type == Source {
			return e
		}
	}
	return nil
}

// CDSBySymbol finds a coding element by its symbol, or by the symbol of its
// parent gene. Exact match is preferred over a case-insensitive one.
func (c *Catalog) CDSBySymbol(mol *Molecule, symbol string) (*Element, bool) {
	cds := c.ElementsOf(mol.ID, CDS)
	for _, e := range cds {
		if e.Symbol == symbol {
			return e, true
		}
	}
	for _, e := range cds {
		if strings.EqualFold(e.Symbol, symbol) {
			return e, true
		}
	}
	for _, e := range cds {
		if p, ok := c.elems[e.ParentID]; ok && strings.EqualFold(p.Symbol, symbol) {
			return e, true
		}
	}
	return nil, false
}

// CDSBySymbolAny searches all molecules of a reference for a coding element.
func (c *Catalog) CDSBySymbolAny(ref *Reference, symbol string) (*Element, bool) {
	for _, mol := range ref.Molecules {
		if e, ok := c.CDSBySymbol(mol, symbol); ok {
			return e, true
		}
	}
	return nil, false
}
