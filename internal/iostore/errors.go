package iostore

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnvariants/pkg/errcode"
)

func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  errors.New("store operator has no connection"),
	}
}

func ReadError(what string, err error) error {
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  "Cannot read <em>%s</em> from the database",
		Vars: []any{what},
		Err:  fmt.Errorf("read %s: %w", what, err),
	}
}

func WriteError(what string, err error) error {
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  "Cannot write <em>%s</em> to the database",
		Vars: []any{what},
		Err:  fmt.Errorf("write %s: %w", what, err),
	}
}

func SampleNotFoundError(name string) error {
	return &gn.Error{
		Code: errcode.StoreSampleNotFoundError,
		Msg:  "Sample <em>%s</em> is not in the database",
		Vars: []any{name},
		Err:  fmt.Errorf("sample %q not found", name),
	}
}
