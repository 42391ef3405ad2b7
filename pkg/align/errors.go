package align

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// TooLargeError is returned when the banded matrix would not fit into the
// allowed memory, usually because the sample covers only a fragment of the
// reference.
func TooLargeError(queryLen, refLen, cells int) error {
	msg := "Alignment of <em>%d</em> bases against <em>%d</em> bases " +
		"is too large"
	vars := []any{queryLen, refLen}
	return &gn.Error{
		Code: errcode.ImportAlignError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("alignment matrix of %d cells exceeds limit", cells),
	}
}

// ScriptError is returned when an edit script does not fit the sequences
// it is applied to.
func ScriptError(cigar string) error {
	msg := "Edit script <em>%s</em> does not match sequences"
	vars := []any{cigar}
	return &gn.Error{
		Code: errcode.ImportAlignError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bad edit script %s", cigar),
	}
}
