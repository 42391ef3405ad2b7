package lifecycle_test

import (
	"testing"

	"github.com/gnames/gnvariants/internal/ioimport"
	"github.com/gnames/gnvariants/internal/iomatch"
	"github.com/gnames/gnvariants/internal/ioschema"
	"github.com/gnames/gnvariants/internal/iostore"
	"github.com/gnames/gnvariants/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

// TestContracts ensures that implementations satisfy lifecycle
// interfaces. The assignments are compile-time checks.
func TestContracts(t *testing.T) {
	var _ lifecycle.SchemaManager = ioschema.NewManager(nil)
	var _ lifecycle.Importer = &ioimport.Importer{}
	var _ lifecycle.Matcher = &iomatch.Matcher{}
	var _ lifecycle.Deleter = &iostore.Store{}

	assert.True(t, true)
}
