// Package apperr carries the failure kinds handlers report, so the HTTP
// status is decided once at the boundary.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	BadRequest
	NotFound
)

// InternalMessage is what clients see for any failure without a kind.
const InternalMessage = "Internal Server Error"

func (k Kind) Status() int {
	switch k {
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case NotFound:
		return "not_found"
	default:
		return "internal_error"
	}
}

// Error is a failure with a client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func NewBadRequest(msg string) *Error { return New(BadRequest, msg) }

func NewNotFound(msg string) *Error { return New(NotFound, msg) }

// Describe returns the status and message to send for err. Anything that is
// not an *Error, or is an Internal one, is reported generically.
func Describe(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Kind.Status(), e.Message
	}
	return http.StatusInternalServerError, InternalMessage
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return kind == Internal
}
