package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIO indicates the storage medium could not read or write a file.
	ErrIO = errors.New("i/o error")

	// ErrFormat indicates the bytes are not a structured-text mapping.
	ErrFormat = errors.New("invalid format")

	// ErrUnsupportedContent indicates a recognized or unknown content kind that cannot be imported.
	ErrUnsupportedContent = errors.New("unsupported content")

	// ErrSchema indicates a model document whose fields cannot be mapped.
	ErrSchema = errors.New("schema error")

	// ErrUnimplemented indicates an operation that is not available yet.
	ErrUnimplemented = errors.New("not implemented")

	// ErrInvalidCategory indicates a model pointing at a missing category.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrUnknownBoard indicates a board type the registry does not know.
	ErrUnknownBoard = errors.New("unknown board")

	// ErrInvalidFirmware indicates a firmware revision the registry does not know.
	ErrInvalidFirmware = errors.New("unknown firmware")
)

// Error is a classified failure of a load or write call.
// errors.Is matches it against its Kind.
type Error struct {
	Kind error
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}
