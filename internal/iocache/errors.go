package iocache

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

// HashCollisionError is returned when different content is written under
// an existing key. The stored artifact is never overwritten.
func HashCollisionError(key string) error {
	return &gn.Error{
		Code: errcode.CacheHashCollisionError,
		Msg:  "Different content for the same key <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("hash collision at %s", key),
	}
}

func EmptySequenceError(name string) error {
	return &gn.Error{
		Code: errcode.ImportInputError,
		Msg:  "Sample <em>%s</em> has an empty sequence",
		Vars: []any{name},
		Err:  fmt.Errorf("empty sequence of sample %q", name),
	}
}

func NoMoleculeError(name string) error {
	return &gn.Error{
		Code: errcode.MoleculeNotFoundError,
		Msg:  "Cannot find a target molecule for sample <em>%s</em>",
		Vars: []any{name},
		Err:  fmt.Errorf("no molecule for sample %q", name),
	}
}

func EncodeError(key string, err error) error {
	return &gn.Error{
		Code: errcode.CacheWriteError,
		Msg:  "Cannot encode artifact <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("encode %s: %w", key, err),
	}
}

func DecodeError(key string, err error) error {
	return &gn.Error{
		Code: errcode.CacheReadError,
		Msg:  "Cannot decode artifact <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("decode %s: %w", key, err),
	}
}
