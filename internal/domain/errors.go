package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every recoverable command failure.
type ErrorKind string

const (
	ErrKindNotFound         ErrorKind = "not_found"
	ErrKindInvalidState     ErrorKind = "invalid_state"
	ErrKindConflict         ErrorKind = "conflict"
	ErrKindPermissionDenied ErrorKind = "permission_denied"
	ErrKindCapacityExceeded ErrorKind = "capacity_exceeded"
)

// Error is a recoverable command failure with a stable kind.
// Anything else reaching a caller is treated as internal.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ErrNotFound(format string, args ...any) *Error {
	return NewError(ErrKindNotFound, format, args...)
}

func ErrInvalidState(format string, args ...any) *Error {
	return NewError(ErrKindInvalidState, format, args...)
}

func ErrConflict(format string, args ...any) *Error {
	return NewError(ErrKindConflict, format, args...)
}

func ErrPermissionDenied(format string, args ...any) *Error {
	return NewError(ErrKindPermissionDenied, format, args...)
}

func ErrCapacityExceeded(format string, args ...any) *Error {
	return NewError(ErrKindCapacityExceeded, format, args...)
}

// KindOf returns the kind of err, or "" if err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool { return KindOf(err) == kind }
