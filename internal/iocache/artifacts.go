package iocache

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/gnames/gnvariants/internal/ioblob"
	"github.com/gnames/gnvariants/pkg/align"
	"github.com/gnames/gnvariants/pkg/lift"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/variant"
)

// Alignment is the stored aligned pair of a sequence and an element.
type Alignment struct {
	ElementID int
	CIGAR     string
	QueryAln  string
	RefAln    string
	Score     int
}

type liftEntry struct {
	once  sync.Once
	table *lift.Table
	err   error
}

// PutAlignment stores the aligned pair of a staged sample.
func (c *Cache) PutAlignment(ctx context.Context, st StagedSample, es align.EditScript) error {
	a := Alignment{
		ElementID: st.Source.ID,
		CIGAR:     es.CIGAR(),
		QueryAln:  es.QueryAln,
		RefAln:    es.RefAln,
		Score:     es.Score,
	}
	return c.WriteGob(ctx, c.Key(KindAlgn, st.Seqhash, st.Source.ID), a)
}

// GetAlignment reads the aligned pair of a sequence and an element.
func (c *Cache) GetAlignment(ctx context.Context, hash string, elementID int) (Alignment, error) {
	var res Alignment
	err := c.ReadGob(ctx, c.Key(KindAlgn, hash, elementID), &res)
	return res, err
}

// PutVariants stores decoded nucleotide and amino acid variants of a
// staged sample.
func (c *Cache) PutVariants(ctx context.Context, st StagedSample, vars []variant.Variant) error {
	return c.WriteGob(ctx, c.Key(KindVar, st.Seqhash, st.Source.ID), vars)
}

// Variants reads decoded variants of a staged sample.
func (c *Cache) Variants(ctx context.Context, st StagedSample) ([]variant.Variant, error) {
	var res []variant.Variant
	err := c.ReadGob(ctx, c.Key(KindVar, st.Seqhash, st.Source.ID), &res)
	return res, err
}

// LiftTable returns the lift table of a molecule. On the first call the
// reference artifacts of the molecule (source sequence, lift table and
// codon table) are read from the store, or built and written once.
func (c *Cache) LiftTable(ctx context.Context, mol *reference.Molecule) (*lift.Table, error) {
	c.mu.Lock()
	e, ok := c.tables[mol.ID]
	if !ok {
		e = &liftEntry{}
		c.tables[mol.ID] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.table, e.err = c.loadLiftTable(ctx, mol)
	})
	return e.table, e.err
}

func (c *Cache) loadLiftTable(ctx context.Context, mol *reference.Molecule) (*lift.Table, error) {
	hash := c.hasher(mol.Sequence)
	if _, err := c.Write(ctx, c.Key(KindRef, hash, 0), []byte(mol.Sequence)); err != nil {
		return nil, err
	}
	if err := c.WriteGob(ctx, c.Key(KindCodon, hash, 0), codonEntries()); err != nil {
		return nil, err
	}

	// maps are gob-encoded in random order, a stored lift table is
	// read back instead of being compared.
	key := c.Key(KindLift, hash, mol.ID)
	var t lift.Table
	err := c.ReadGob(ctx, key, &t)
	if err == nil {
		t.Index()
		return &t, nil
	}
	if !errors.Is(err, ioblob.ErrNotFound) {
		return nil, err
	}

	res := lift.BuildTable(c.cat, mol)
	if err = c.WriteGob(ctx, key, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Codon is a row of the stored codon table.
type Codon struct {
	Triplet string
	AA      byte
}

func codonEntries() []Codon {
	tbl := reference.CodonTable()
	res := make([]Codon, 0, len(tbl))
	for _, k := range slices.Sorted(maps.Keys(tbl)) {
		res = append(res, Codon{Triplet: k, AA: tbl[k]})
	}
	return res
}
