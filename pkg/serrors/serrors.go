// Package serrors defines semantic error kinds shared by the webmention
// receiver. Handlers map kinds to HTTP responses; lower layers only attach them.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a sentinel describing the category of a failure. Kinds are created
// with NewKind and compared with errors.Is.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrInvalidInput marks missing or malformed submission fields and
	// unparseable URLs. Nothing is fetched or recorded.
	ErrInvalidInput = NewKind("INVALID_INPUT")
	// ErrDomainNotAllowed marks a target whose host is not in the allowlist.
	ErrDomainNotAllowed = NewKind("DOMAIN_NOT_ALLOWED")
	// ErrFetchFailure marks a source that could not be fetched or read.
	ErrFetchFailure = NewKind("FETCH_FAILURE")
	// ErrUnavailable marks a capability the configured backend cannot provide.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrInternal marks storage or other server-side failures.
	ErrInternal = NewKind("INTERNAL")
)

// Error carries a Kind together with an optional human readable message and an
// optional cause. errors.Is matches both the kind and anything in the cause
// chain.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With builds an error of kind k with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap builds an error of kind k that wraps err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly builds an error that carries nothing but its kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the kind of e or appears in its cause chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As lets errors.As extract either the kind or a typed cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the semantic kind, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message without the cause appended.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped error, or nil.
func (e *Error) Cause() error { return e.err }

// KindOf returns the first Kind found in err's chain, or ErrInternal when err
// carries none.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return ErrInternal
}

// MessageOf returns the message of the outermost *Error in err's chain, falling
// back to the kind name.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.msg != "" {
		return e.msg
	}

	return KindOf(err).Error()
}
