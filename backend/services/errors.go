package services

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound        Kind = "NotFound"
	KindDuplicateKey    Kind = "DuplicateKey"
	KindValidation      Kind = "ValidationError"
	KindForbidden       Kind = "Forbidden"
	KindAlreadyEnrolled Kind = "AlreadyEnrolled"
	KindCourseFull      Kind = "CourseFull"
	KindNotEnrolled     Kind = "NotEnrolled"
	KindExceedsBalance  Kind = "ExceedsBalance"
	KindInvalidAmount   Kind = "InvalidAmount"
	KindInvalidStatus   Kind = "InvalidStatus"
	KindHasDependents   Kind = "HasDependents"
	KindIOFailure       Kind = "IOFailure"
	KindUnexpected      Kind = "Unexpected"
)

// Error is a classified failure. Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrDuplicateKey    = &Error{Kind: KindDuplicateKey, Message: "duplicate key"}
	ErrValidation      = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrAlreadyEnrolled = &Error{Kind: KindAlreadyEnrolled, Message: "already enrolled"}
	ErrCourseFull      = &Error{Kind: KindCourseFull, Message: "course is full"}
	ErrNotEnrolled     = &Error{Kind: KindNotEnrolled, Message: "not enrolled"}
	ErrExceedsBalance  = &Error{Kind: KindExceedsBalance, Message: "exceeds balance"}
	ErrInvalidAmount   = &Error{Kind: KindInvalidAmount, Message: "invalid amount"}
	ErrInvalidStatus   = &Error{Kind: KindInvalidStatus, Message: "invalid status"}
	ErrHasDependents   = &Error{Kind: KindHasDependents, Message: "has dependents"}
	ErrIOFailure       = &Error{Kind: KindIOFailure, Message: "storage failure"}
)

// KindOf classifies err; anything that is not an *Error is Unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func fail(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ioFailure(err error) *Error {
	return &Error{Kind: KindIOFailure, Message: "storage failure", Err: err}
}
