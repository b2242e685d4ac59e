// Package errors provides the error type used across authkit. It is modeled
// on `github.com/go-errors/errors` but replaces transport status codes with a
// small taxonomy of OAuth flow error kinds, and keeps stack-traces so that
// unexpected failures can be debugged after the fact.
//
// Errors carry three things: a kind (machine readable, stable), a message
// (human readable), and optional raw details such as a token endpoint
// response body. The type implements the standard error interface and
// supports errors.Is/As unwrapping, so it can be used interchangeably with
// code expecting a normal error return.
//
// Protocol-expected failures (user denied consent, expired code, CSRF
// mismatch) are values of this type, never panics: the public authkit surface
// has no exception-style error path.
package errors

import (
	"bytes"
	"fmt"
	"runtime"
)

// Kind identifies the category of an authentication failure. The set is
// closed; integrators can switch on it without worrying about new values
// appearing in a patch release.
type Kind string

const (
	// KindInvalidState indicates the CSRF state check on the callback failed.
	KindInvalidState Kind = "invalid_state"

	// KindTokenExchangeFailed indicates the server rejected the authorization
	// code, or a client-side precondition failed (missing verifier, replayed
	// code).
	KindTokenExchangeFailed Kind = "token_exchange_failed"

	// KindTokenRefreshFailed is reserved for refresh errors that need to be
	// distinguished from a nil result. Current refresh failures surface as a
	// nil token state rather than this kind.
	KindTokenRefreshFailed Kind = "token_refresh_failed"

	// KindInvalidToken indicates a token could not be parsed or decoded.
	KindInvalidToken Kind = "invalid_token"

	// KindNetworkError indicates a transport-level failure reaching the
	// provider.
	KindNetworkError Kind = "network_error"

	// KindStorageError is reserved for storage backends that choose to
	// surface failures instead of degrading to no-ops.
	KindStorageError Kind = "storage_error"

	// KindConfigurationError indicates the provider configuration is missing
	// required fields.
	KindConfigurationError Kind = "configuration_error"

	// KindCallbackError indicates the provider returned an OAuth error on the
	// callback, or the callback URL was malformed.
	KindCallbackError Kind = "callback_error"
)

// The maximum number of stackframes on any error.
var MaxStackDepth = 50

// Error is an error with a kind, optional raw details and an attached
// stacktrace. It can be used wherever the builtin error interface is
// expected.
type Error struct {
	Err     error
	kind    Kind
	details string
	stack   []uintptr
}

// New makes an Error from the given message with an unspecified kind. The
// stacktrace points at the caller of New.
func New(msg string) *Error {
	return newError(fmt.Errorf("%s", msg), "")
}

// NewK makes an Error with the given kind.
func NewK(kind Kind, msg string) *Error {
	return newError(fmt.Errorf("%s", msg), kind)
}

// Newf makes an Error with the given kind and a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return newError(fmt.Errorf(format, args...), kind)
}

// Wrap makes an Error from the given error, preserving it as the cause. If
// the value is already an *Error it is returned unchanged.
func Wrap(e error) *Error {
	if e == nil {
		return nil
	}
	if err, ok := e.(*Error); ok {
		return err
	}
	return newError(e, "")
}

// WrapK wraps an error and assigns it a kind. An existing *Error keeps its
// stack but has its kind replaced.
func WrapK(kind Kind, e error) *Error {
	if e == nil {
		return nil
	}
	if err, ok := e.(*Error); ok {
		err.kind = kind
		return err
	}
	return newError(e, kind)
}

func newError(err error, kind Kind) *Error {
	stack := make([]uintptr, MaxStackDepth)
	length := runtime.Callers(3, stack[:])
	return &Error{
		Err:   err,
		kind:  kind,
		stack: stack[:length],
	}
}

// Error returns the underlying error's message.
func (err *Error) Error() string {
	return err.Err.Error()
}

// Unwrap the error (implements api for As function).
func (err *Error) Unwrap() error {
	return err.Err
}

// Kind returns the error kind, or the empty string if none was assigned.
func (err *Error) Kind() Kind {
	return err.kind
}

// WithKind sets the kind associated with the error.
func (err *Error) WithKind(kind Kind) *Error {
	err.kind = kind
	return err
}

// Details returns raw details attached to the error, such as a response body.
func (err *Error) Details() string {
	return err.details
}

// WithDetails attaches raw details to the error.
func (err *Error) WithDetails(details string) *Error {
	err.details = details
	return err
}

// Stack returns the callstack formatted the same way that go does in
// runtime/debug.Stack().
func (err *Error) Stack() []byte {
	buf := bytes.Buffer{}
	frames := runtime.CallersFrames(err.stack)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return buf.Bytes()
}

// ErrorStack returns a string that contains both the error message and the
// callstack.
func (err *Error) ErrorStack() string {
	return err.Error() + "\n" + string(err.Stack())
}

// KindOf returns the kind for an error. If the error is nil or does not carry
// a kind, the empty string is returned.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := err.(kindedError); ok {
		return e.Kind()
	}
	return ""
}

type kindedError interface {
	Kind() Kind
}
