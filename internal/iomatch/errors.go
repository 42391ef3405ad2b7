package iomatch

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// ExecError wraps failures of compiled statements.
func ExecError(stmt string, err error) error {
	return &gn.Error{
		Code: errcode.QueryExecError,
		Msg:  "Cannot run <em>%s</em> query",
		Vars: []any{stmt},
		Err:  fmt.Errorf("run %s statement: %w", stmt, err),
	}
}

func NoAlignmentError(name string) error {
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  "Sample <em>%s</em> has no alignment",
		Vars: []any{name},
		Err:  fmt.Errorf("sample %q has no source alignment", name),
	}
}
