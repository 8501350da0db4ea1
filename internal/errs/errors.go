// internal/errs/errors.go
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch on the failure class
// instead of matching message strings.
type Kind int

const (
	// KindValidation is bad caller input (missing dimension, malformed code).
	KindValidation Kind = iota
	// KindNotFound means a referenced id did not resolve.
	KindNotFound
	// KindConfiguration is internally inconsistent catalog data - an
	// operator problem, not a user mistake.
	KindConfiguration
	// KindConflict is a duplicate unique field or an in-use entity.
	KindConflict
	// KindCollaborator is a failure of an external service call.
	KindCollaborator
)

// Error carries a kind alongside the message and an optional wrapped cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Validation creates a validation error with a formatted message.
func Validation(format string, args ...interface{}) error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error for a referenced entity id.
func NotFound(entity string, id interface{}) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf("%s %v not found", entity, id)}
}

// Configuration creates a configuration error with a formatted message.
func Configuration(format string, args ...interface{}) error {
	return &Error{kind: KindConfiguration, msg: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error with a formatted message.
func Conflict(format string, args ...interface{}) error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// Collaborator wraps a failed external service call.
func Collaborator(msg string, err error) error {
	return &Error{kind: KindCollaborator, msg: msg, err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return IsKind(err, KindNotFound) }

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return IsKind(err, KindConfiguration) }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return IsKind(err, KindConflict) }

// IsCollaborator reports whether err is a collaborator failure.
func IsCollaborator(err error) bool { return IsKind(err, KindCollaborator) }
