// Package ipcerr defines the single error surface used across the arrowipc
// codec. Every fallible operation in this module returns (or wraps) an
// *Error from this package so that callers can branch on failure kind with
// errors.Is/errors.As instead of string matching.
package ipcerr

import (
	"errors"
	"fmt"
)

// Kind classifies the way a codec operation failed.
type Kind uint8

const (
	Truncated Kind = iota + 1
	BadMagic
	UnexpectedMessage
	UnsupportedMessage
	UnknownType
	FormatParse
	SchemaMismatch
	CompressionError
	DecompressionError
	SizeMismatch
	InvalidState
)

func (k Kind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case BadMagic:
		return "bad magic"
	case UnexpectedMessage:
		return "unexpected message"
	case UnsupportedMessage:
		return "unsupported message"
	case UnknownType:
		return "unknown type"
	case FormatParse:
		return "format parse"
	case SchemaMismatch:
		return "schema mismatch"
	case CompressionError:
		return "compression error"
	case DecompressionError:
		return "decompression error"
	case SizeMismatch:
		return "size mismatch"
	case InvalidState:
		return "invalid state"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by this module. Kind identifies
// the failure category; Msg carries a human-readable detail; Err, when set,
// is the underlying cause (wrapped, visible to errors.Unwrap).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("arrowipc: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}

	return fmt.Sprintf("arrowipc: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, ipcerr.New(ipcerr.Truncated, "")) style sentinels, or
// more idiomatically use the package-level Is helper below.
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.Kind == e.Kind
	}

	return false
}

// New constructs an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error of the given kind, wrapping cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Of returns the Kind of err if it is (or wraps) an *ipcerr.Error, and false
// otherwise.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := Of(err)
	return ok && k == kind
}
