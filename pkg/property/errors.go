package property

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// SchemaError is returned for invalid property declarations.
func SchemaError(name, reason string) error {
	msg := "Invalid property <em>%s</em>: %s"
	vars := []any{name, reason}
	return &gn.Error{
		Code: errcode.SchemaReferenceLoadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("property %s: %s", name, reason),
	}
}

// ValueError is returned when a value does not fit the property type.
func ValueError(name, val string, err error) error {
	msg := "Value <em>%s</em> does not fit property <em>%s</em>"
	vars := []any{val, name}
	if err == nil {
		err = fmt.Errorf("bad value %q for %s", val, name)
	}
	return &gn.Error{
		Code: errcode.ImportInputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("property %s: %w", name, err),
	}
}

// UnknownError is returned for values of undeclared properties.
func UnknownError(name string) error {
	msg := "Property <em>%s</em> is not declared"
	vars := []any{name}
	return &gn.Error{
		Code: errcode.ImportInputError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown property %s", name),
	}
}
