package variant

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// ReplayError is returned when a variant cannot be applied to a reference
// element.
func ReplayError(v Variant, reason string) error {
	msg := "Cannot replay variant <em>%s</em>: %s"
	vars := []any{v.Label, reason}
	return &gn.Error{
		Code: errcode.ImportParanoidError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("replay %s (%d-%d): %s", v.Label, v.Start, v.End, reason),
	}
}
