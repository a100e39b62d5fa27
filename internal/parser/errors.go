package parser

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error matches ErrParse and its own kind with errors.Is,
// so callers can catch broadly or narrowly.
var (
	ErrParse             = errors.New("parse error")
	ErrFileMissing       = errors.New("file not found")
	ErrDecodeFailure     = errors.New("decode failure")
	ErrFormatInvalid     = errors.New("invalid format")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// Error is returned by adapters and the registry for recognised failures.
type Error struct {
	Kind error  // one of the Err* kinds above
	Path string // file the failure relates to
	Msg  string // short description, may be empty
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrParse or this error's kind.
func (e *Error) Is(target error) bool {
	return target == ErrParse || target == e.Kind
}

func fileMissing(path string, err error) *Error {
	return &Error{Kind: ErrFileMissing, Path: path, Err: err}
}

func decodeFailure(path, encoding string, err error) *Error {
	return &Error{Kind: ErrDecodeFailure, Path: path, Msg: fmt.Sprintf("cannot decode as %s, try another encoding", encoding), Err: err}
}

func formatInvalid(path, msg string, err error) *Error {
	return &Error{Kind: ErrFormatInvalid, Path: path, Msg: msg, Err: err}
}

func unsupportedFormat(path, msg string) *Error {
	return &Error{Kind: ErrUnsupportedFormat, Path: path, Msg: msg}
}
