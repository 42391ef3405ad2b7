package iofs

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

func CreateDirError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot create directory <em>%s</em>",
		Vars: []any{dir},
		Err:  fmt.Errorf("mkdir %s: %w", dir, err),
	}
}

// WriteConfigError is returned when the default config.yaml cannot be
// written to the home directory.
func WriteConfigError(path string, err error) error {
	return &gn.Error{
		Code: errcode.WriteConfigError,
		Msg:  "Cannot write default configuration to <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("write config %s: %w", path, err),
	}
}

func ReadFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("read %s: %w", path, err),
	}
}
