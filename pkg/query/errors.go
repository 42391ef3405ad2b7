package query

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// UnknownElementError is returned when a term names a molecule or gene
// that the reference does not have.
func UnknownElementError(term, name string) error {
	msg := "Unknown molecule or gene <em>%s</em> in <em>%s</em>"
	vars := []any{name, term}
	return &gn.Error{
		Code: errcode.QueryUnknownElementError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown molecule or gene %q in %q", name, term),
	}
}

// ModeError is returned for unsupported output modes.
func ModeError(mode string) error {
	msg := "Unsupported query mode <em>%s</em>"
	vars := []any{mode}
	return &gn.Error{
		Code: errcode.QueryModeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unsupported mode %q", mode),
	}
}

// NotReadOnlyError is returned when a pass-through statement could modify
// the store.
func NotReadOnlyError(reason string) error {
	msg := "Only read-only statements are allowed: %s"
	vars := []any{reason}
	return &gn.Error{
		Code: errcode.QueryNotReadOnlyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("statement is not read-only: %s", reason),
	}
}

// RenderError wraps failures of statement rendering.
func RenderError(err error) error {
	msg := "Cannot render query"
	return &gn.Error{
		Code: errcode.QuerySyntaxError,
		Msg:  msg,
		Err:  fmt.Errorf("render: %w", err),
	}
}
