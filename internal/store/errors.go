package store

import (
	"errors"
	"fmt"
)

// Kind classifies a record store failure.
type Kind string

// Failure kinds surfaced by the record store.
const (
	KindConflict         Kind = "conflict"
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindInvalidState     Kind = "invalid_state"
	KindNotFound         Kind = "not_found"
	KindCorruptState     Kind = "corrupt_state"
)

// Error is a business-rule or state failure returned by store operations.
// Message is safe to show to end users.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError builds a store error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err, or "" when err is not a store error.
func KindOf(err error) Kind {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// MessageOf returns the user facing message of a store error.
func MessageOf(err error) string {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr.Message
	}
	return ""
}

func corrupt(key Key, err error) error {
	return &Error{
		Kind:    KindCorruptState,
		Message: fmt.Sprintf("collection %s is unreadable", key),
		Err:     err,
	}
}
