// Package iocache is the content-addressed staging area of the import.
// Every artifact key is derived from the hash of the content it belongs
// to, so identical sequences share their sequence, alignment and variant
// artifacts across samples and runs.
package iocache

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvariants/internal/ioblob"
	"github.com/gnames/gnvariants/pkg/reference"
	"github.com/gnames/gnvariants/pkg/sample"
	"github.com/gnames/gnvariants/pkg/seqhash"
)

// Kind is an artifact namespace.
type Kind string

const (
	KindSeq   Kind = "seq"
	KindAlgn  Kind = "algn"
	KindVar   Kind = "var"
	KindRef   Kind = "ref"
	KindLift  Kind = "lift"
	KindCodon Kind = "codon"
)

func (k Kind) ext() string {
	switch k {
	case KindSeq, KindRef:
		return "fa"
	default:
		return "gob"
	}
}

// StagedSample is a record prepared for import.
type StagedSample struct {
	Name     string
	Sequence string
	Seqhash  string
	Molecule *reference.Molecule
	// Source is the source element of the molecule, the alignment target.
	Source     *reference.Element
	Properties map[string]string

	// HasSeq, HasAlgn and HasVar tell which artifacts existed before
	// staging.
	HasSeq  bool
	HasAlgn bool
	HasVar  bool
}

// Cache stages samples and keeps artifacts in a blob store.
type Cache struct {
	store  ioblob.Store
	cat    *reference.Catalog
	hasher seqhash.Hasher
	fanOut int

	mu      sync.Mutex
	pending []StagedSample
	tables  map[int]*liftEntry
}

// New creates a cache. A nil hasher means seqhash.Hash.
func New(
	store ioblob.Store,
	cat *reference.Catalog,
	fanOut int,
	hasher seqhash.Hasher,
) *Cache {
	if hasher == nil {
		hasher = seqhash.Hash
	}
	if fanOut <= 0 {
		fanOut = 2
	}
	return &Cache{
		store:  store,
		cat:    cat,
		hasher: hasher,
		fanOut: fanOut,
		tables: make(map[int]*liftEntry),
	}
}

// Store returns the underlying blob store.
func (c *Cache) Store() ioblob.Store {
	return c.store
}

// Key returns the artifact key of a hash. Element id is added when it is
// positive. The hash is hex encoded, base64url hashes that differ only in
// case must not share a path on case-insensitive file systems.
func (c *Cache) Key(kind Kind, hash string, elementID int) string {
	prefix, name := seqhash.FanOut(hex.EncodeToString([]byte(hash)), c.fanOut)
	if elementID > 0 {
		name += "." + strconv.Itoa(elementID)
	}
	return fmt.Sprintf("%s/%s/%s.%s", kind, prefix, name, kind.ext())
}

// Stage normalizes and hashes a record, resolves its target molecule and
// writes the sequence artifact.
func (c *Cache) Stage(ctx context.Context, rec sample.Record) (StagedSample, error) {
	res := StagedSample{Name: rec.Name, Properties: rec.Properties}
	res.Sequence = seqhash.Normalize(rec.Sequence)
	if res.Sequence == "" {
		return res, EmptySequenceError(rec.Name)
	}
	res.Seqhash = c.hasher(res.Sequence)

	mol, err := c.molecule(rec)
	if err != nil {
		return res, err
	}
	res.Molecule = mol
	res.Source = c.cat.SourceElement(mol.ID)
	if res.Source == nil {
		return res, NoMoleculeError(rec.Name)
	}

	seqKey := c.Key(KindSeq, res.Seqhash, 0)
	if _, res.HasSeq, err = c.store.Head(ctx, seqKey); err != nil {
		return res, err
	}
	if _, err = c.Write(ctx, seqKey, []byte(res.Sequence)); err != nil {
		return res, err
	}
	if _, res.HasAlgn, err = c.store.Head(ctx, c.Key(KindAlgn, res.Seqhash, res.Source.ID)); err != nil {
		return res, err
	}
	if _, res.HasVar, err = c.store.Head(ctx, c.Key(KindVar, res.Seqhash, res.Source.ID)); err != nil {
		return res, err
	}
	return res, nil
}

func (c *Cache) molecule(rec sample.Record) (*reference.Molecule, error) {
	if rec.Molecule != "" {
		return c.cat.Molecule(rec.Molecule)
	}
	ref := c.cat.DefaultReference()
	if ref == nil {
		return nil, NoMoleculeError(rec.Name)
	}
	mol := c.cat.DefaultMolecule(ref)
	if mol == nil {
		return nil, NoMoleculeError(rec.Name)
	}
	return mol, nil
}

// Write stores data under key. When the key exists its content is
// compared with data, a difference is a HashCollisionError. It returns
// true if the artifact was created.
func (c *Cache) Write(ctx context.Context, key string, data []byte) (bool, error) {
	_, err := c.store.Put(ctx, key, data)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ioblob.ErrExists) {
		return false, err
	}
	old, err := c.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !bytes.Equal(old, data) {
		slog.Error("Hash collision", "key", key)
		return false, HashCollisionError(key)
	}
	return false, nil
}

// WriteGob gob-encodes obj and writes it with Write.
func (c *Cache) WriteGob(ctx context.Context, key string, obj any) error {
	enc := gnfmt.GNgob{}
	data, err := enc.Encode(obj)
	if err != nil {
		return EncodeError(key, err)
	}
	_, err = c.Write(ctx, key, data)
	return err
}

// ReadGob decodes the artifact of key into obj.
func (c *Cache) ReadGob(ctx context.Context, key string, obj any) error {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return err
	}
	enc := gnfmt.GNgob{}
	if err = enc.Decode(data, obj); err != nil {
		return DecodeError(key, err)
	}
	return nil
}

// Sequence reads a normalized sequence by its hash.
func (c *Cache) Sequence(ctx context.Context, hash string) (string, error) {
	data, err := c.store.Get(ctx, c.Key(KindSeq, hash, 0))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MarkForProfiling queues a staged sample for the aligner.
func (c *Cache) MarkForProfiling(st StagedSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, st)
}

// Pending returns queued samples and empties the queue.
func (c *Cache) Pending() []StagedSample {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.pending
	c.pending = nil
	return res
}
