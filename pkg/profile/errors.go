package profile

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// SyntaxError is returned for malformed mutation terms.
func SyntaxError(term, reason string) error {
	msg := "Cannot parse mutation <em>%s</em>: %s"
	vars := []any{term, reason}
	return &gn.Error{
		Code: errcode.QuerySyntaxError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("mutation %q: %s", term, reason),
	}
}

// PropertyError is returned for malformed or out of range property
// filters.
func PropertyError(name, val, reason string) error {
	msg := "Bad value <em>%s</em> for property <em>%s</em>: %s"
	vars := []any{val, name, reason}
	return &gn.Error{
		Code: errcode.QueryPropertyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("property %s value %q: %s", name, val, reason),
	}
}
