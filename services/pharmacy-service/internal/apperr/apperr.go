// Package apperr defines the error kinds the pharmacy service reports to
// clients and the HTTP status each one maps to.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	MalformedRequest Kind = "malformed_request"
	MissingField     Kind = "missing_field"
	InvalidInput     Kind = "invalid_input"
	SlotConflict     Kind = "slot_conflict"
	Unauthorized     Kind = "unauthorized"
	Forbidden        Kind = "forbidden"
	NotFound         Kind = "not_found"
	Duplicate        Kind = "duplicate"
	MethodNotAllowed Kind = "method_not_allowed"
	Internal         Kind = "internal"
)

// Error is a classified failure. Message is safe to show to the client;
// Err is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Missing(field string) *Error {
	return &Error{Kind: MissingField, Field: field, Message: field + " is required"}
}

func Invalid(field, message string) *Error {
	return &Error{Kind: InvalidInput, Field: field, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports Internal for errors that were never classified.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func Status(kind Kind) int {
	switch kind {
	case MalformedRequest, MissingField, InvalidInput:
		return http.StatusBadRequest
	case SlotConflict, Duplicate:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
