package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		text string
	}{
		{"dir", CreateDirError("/test/dir", cause), errcode.CreateDirError, "mkdir /test/dir"},
		{"config", WriteConfigError("/test/config.yaml", cause), errcode.WriteConfigError, "write config"},
		{"read", ReadFileError("/test/data", cause), errcode.ReadFileError, "read /test/data"},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Len(t, gnErr.Vars, 1, v.msg)
		assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		assert.Contains(t, gnErr.Err.Error(), v.text, v.msg)
	}
}
