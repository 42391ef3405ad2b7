package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

func LogFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  "Cannot open log file <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("open log %s: %w", path, err),
	}
}
