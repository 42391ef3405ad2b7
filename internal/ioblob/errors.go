package ioblob

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

func DriverError(driver string, err error) error {
	if err == nil {
		err = errors.New("unknown driver")
	}
	return &gn.Error{
		Code: errcode.CacheBlobDriverError,
		Msg:  "Cannot open blob store <em>%s</em>",
		Vars: []any{driver},
		Err:  fmt.Errorf("blob driver %q: %w", driver, err),
	}
}

func ReadError(key string, err error) error {
	return &gn.Error{
		Code: errcode.CacheReadError,
		Msg:  "Cannot read blob <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("read blob %s: %w", key, err),
	}
}

func WriteError(key string, err error) error {
	return &gn.Error{
		Code: errcode.CacheWriteError,
		Msg:  "Cannot write blob <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("write blob %s: %w", key, err),
	}
}

// InvalidKeyError is returned for empty, absolute or escaping keys.
func InvalidKeyError(key string) error {
	return &gn.Error{
		Code: errcode.CacheWriteError,
		Msg:  "Invalid blob key <em>%s</em>",
		Vars: []any{key},
		Err:  fmt.Errorf("invalid blob key %q", key),
	}
}
