package errcode_test

import (
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/stretchr/testify/assert"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		msg  string
		code gn.ErrorCode
		res  errcode.Class
	}{
		{"unknown", errcode.UnknownError, errcode.ClassUnknown},
		{"bad fasta", errcode.ImportInputError, errcode.ClassInput},
		{"no molecule", errcode.MoleculeNotFoundError, errcode.ClassInput},
		{"collision", errcode.CacheHashCollisionError, errcode.ClassIntegrity},
		{"paranoid", errcode.ImportParanoidError, errcode.ClassIntegrity},
		{"element seq", errcode.ReferenceIntegrityError, errcode.ClassIntegrity},
		{"syntax", errcode.QuerySyntaxError, errcode.ClassQuery},
		{"write sql", errcode.QueryNotReadOnlyError, errcode.ClassQuery},
		{"db", errcode.DBConnectionError, errcode.ClassResource},
		{"blob", errcode.CacheWriteError, errcode.ClassResource},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, errcode.ClassOf(v.code), v.msg)
	}
	assert.Equal(t, "integrity", errcode.ClassIntegrity.String())
}
