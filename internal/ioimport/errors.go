package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// ParanoidError is returned when stored variants do not reproduce the
// imported sequence.
func ParanoidError(name, reason string) error {
	return &gn.Error{
		Code: errcode.ImportParanoidError,
		Msg:  "Stored variants of <em>%s</em> do not restore its sequence",
		Vars: []any{name},
		Err:  fmt.Errorf("paranoid check of %s: %s", name, reason),
	}
}

func AllFailedError(n int) error {
	return &gn.Error{
		Code: errcode.ImportAllFailedError,
		Msg:  "All <em>%d</em> samples failed to import",
		Vars: []any{n},
		Err:  fmt.Errorf("all %d samples failed", n),
	}
}

func NotReadyError(what string) error {
	return &gn.Error{
		Code: errcode.ImportInsertError,
		Msg:  "Importer is not initialized: missing %s",
		Vars: []any{what},
		Err:  fmt.Errorf("importer without %s", what),
	}
}
