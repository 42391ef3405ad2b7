package iofasta

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

func ReadError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ImportInputError,
		Msg:  "Cannot read sequences from <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("read %s: %w", path, err),
	}
}

func HeaderError(header, reason string) error {
	return &gn.Error{
		Code: errcode.ImportInputError,
		Msg:  "Bad FASTA header <em>%s</em>: %s",
		Vars: []any{header, reason},
		Err:  fmt.Errorf("header %q: %s", header, reason),
	}
}

func PropertiesError(path string, line int, reason string) error {
	return &gn.Error{
		Code: errcode.ImportInputError,
		Msg:  "Bad properties file <em>%s</em>, line %d: %s",
		Vars: []any{path, line, reason},
		Err:  fmt.Errorf("%s:%d: %s", path, line, reason),
	}
}

func WriteError(path string, err error) error {
	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  "Cannot write <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("write %s: %w", path, err),
	}
}
