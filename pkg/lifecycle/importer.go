package lifecycle

import (
	"context"

	"github.com/gnames/gnvariants/pkg/sample"
)

// Importer stores samples with their variants.
type Importer interface {
	// ImportBatch stages, aligns and stores records. Properties given in
	// props (sample name to property values) complement the properties
	// of the records. Per-sample failures are collected in the report,
	// the error is returned only when the run cannot continue.
	ImportBatch(
		ctx context.Context,
		records []sample.Record,
		props map[string]map[string]string,
	) (sample.Report, error)
}
