package dto

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindOffline ErrorKind = iota + 1
	KindUnauthorized
	KindTransport
	KindDecoding
	KindPlugin
)

func (k ErrorKind) String() string {
	switch k {
	case KindOffline:
		return "offline"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransport:
		return "transport"
	case KindDecoding:
		return "decoding"
	case KindPlugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// Error is the only error type returned by a failed send. Err carries the
// cause for Transport, Decoding and Plugin failures.
type Error struct {
	Kind ErrorKind
	Err  error
}

var (
	ErrOffline      = &Error{Kind: KindOffline}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}

	ErrNilRequest     = errors.New("nil request provided")
	ErrClientNotFound = errors.New("client not found")
)

func TransportError(err error) *Error { return &Error{Kind: KindTransport, Err: err} }
func DecodingError(err error) *Error  { return &Error{Kind: KindDecoding, Err: err} }
func PluginError(err error) *Error    { return &Error{Kind: KindPlugin, Err: err} }

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrOffline) holds
// regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// AsError returns err as an *Error, wrapping foreign errors with the fallback kind.
func AsError(err error, fallback ErrorKind) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: fallback, Err: err}
}

// KindOf reports the kind of err, or zero when err is not part of the taxonomy.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
