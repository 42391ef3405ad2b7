package lifecycle

import (
	"context"

	"github.com/gnames/gnvariants/pkg/query"
)

// Matcher answers profile and property queries.
type Matcher interface {
	// Match compiles and runs a request. Compilation errors are returned
	// before the store is touched.
	Match(ctx context.Context, req query.Request) (query.Result, error)

	// Restore rebuilds the sequence of a sample from the reference and
	// its stored variants. The aligned form shows deletions as `-` and
	// insertions in lower case.
	Restore(ctx context.Context, name string, aligned bool) (string, error)
}

// Deleter removes samples.
type Deleter interface {
	// DeleteSamples removes samples by name with their properties, and
	// sweeps sequences, alignments and variants nobody references
	// anymore. It returns the number of removed samples.
	DeleteSamples(ctx context.Context, names []string) (int, error)
}
