package reference

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// DecodeError is returned when reference definitions cannot be parsed.
func DecodeError(err error) error {
	msg := "Cannot decode reference definitions"
	return &gn.Error{
		Code: errcode.ReferenceDecodeError,
		Msg:  msg,
		Err:  fmt.Errorf("reference decode: %w", err),
	}
}

// IntegrityError is returned when an element sequence does not match the
// sequence assembled from its parts.
func IntegrityError(elem, reason string) error {
	msg := "Element <em>%s</em> is inconsistent with its molecule: %s"
	vars := []any{elem, reason}
	return &gn.Error{
		Code: errcode.ReferenceIntegrityError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("element %s: %s", elem, reason),
	}
}

// NotFoundError is returned for unknown reference accessions.
func NotFoundError(acc string) error {
	msg := "Reference <em>%s</em> is not found"
	vars := []any{acc}
	return &gn.Error{
		Code: errcode.ReferenceNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("reference %s not found", acc),
	}
}

// MoleculeNotFoundError is returned when a molecule tag cannot be resolved.
func MoleculeNotFoundError(key string) error {
	msg := "Molecule <em>%s</em> is not found"
	vars := []any{key}
	return &gn.Error{
		Code: errcode.MoleculeNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("molecule %s not found", key),
	}
}
