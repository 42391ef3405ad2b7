package iotesting

import (
	"bytes"
	"context"
	_ "embed"
	"testing"

	"github.com/gnames/gnvariants/internal/iodb"
	"github.com/gnames/gnvariants/internal/ioschema"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/gnames/gnvariants/pkg/db"
	"github.com/gnames/gnvariants/pkg/lifecycle"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/reference"
)

// ToyYAML describes a 30 bases reference TOY.1 with element ids:
// source 1, gene G1 2, P1 3 (0-9, MNK), P2 4 (21-30 minus strand, ETM).
// It also declares properties and lineages.
//
//go:embed testdata/toy.yaml
var ToyYAML string

// ToySeq is the sequence of the TOY.1 molecule.
const ToySeq = "ATGAATAAATAAGGCTTGACCCATGGTTTC"

// Env is a SQLite database with the toy reference loaded.
type Env struct {
	Config   *config.Config
	Operator db.Operator
	Schema   lifecycle.SchemaManager
	Catalog  *reference.Catalog
	Props    *property.Schema
	Lineages *property.Lineages
}

// SetupSQLite creates a SQLite database in a temporary directory, creates
// the schema and loads ToyYAML. The database is closed at the end of the
// test.
func SetupSQLite(t *testing.T) *Env {
	t.Helper()
	ctx := context.Background()
	cfg := SQLiteConfig(t.TempDir())

	op, err := iodb.NewOperator("sqlite")
	if err != nil {
		t.Fatalf("operator: %v", err)
	}
	if err = op.Connect(ctx, &cfg.Database); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = op.Close() })

	mgr := ioschema.NewManager(op)
	if err = mgr.Create(ctx); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	refs, err := reference.DecodeYAML(bytes.NewBufferString(ToyYAML))
	if err != nil {
		t.Fatalf("decode references: %v", err)
	}
	props, ll, err := property.DecodeYAML(bytes.NewBufferString(ToyYAML))
	if err != nil {
		t.Fatalf("decode properties: %v", err)
	}
	if err = mgr.Setup(ctx, refs, props, ll); err != nil {
		t.Fatalf("setup: %v", err)
	}

	res := &Env{Config: cfg, Operator: op, Schema: mgr}
	if res.Catalog, err = mgr.Catalog(ctx); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if res.Props, res.Lineages, err = mgr.Properties(ctx); err != nil {
		t.Fatalf("properties: %v", err)
	}
	return res
}
