// Package service holds the reservation core and the catalog operations that
// sit between the HTTP handlers and the repositories.  Every failure a caller
// can act on is reported as *Error with a stable machine-readable code.
package service

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how a client should react to them.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindState
	KindForbidden
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	case KindForbidden:
		return "forbidden"
	case KindInfrastructure:
		return "infrastructure"
	}
	return "unknown"
}

// Error codes returned to clients.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeTableNotFound       = "TABLE_NOT_FOUND"
	CodeTableUnavailable    = "TABLE_UNAVAILABLE"
	CodePartyTooLarge       = "PARTY_TOO_LARGE"
	CodeRestaurantNotFound  = "RESTAURANT_NOT_FOUND"
	CodeOutOfHours          = "OUT_OF_HOURS"
	CodeReservationNotFound = "RESERVATION_NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeForbidden           = "FORBIDDEN"
	CodeRestaurantExists    = "RESTAURANT_EXISTS"
	CodeTableNumberExists   = "TABLE_NUMBER_EXISTS"
	CodeTableHeld           = "TABLE_HELD"
	CodeRatingExists        = "RATING_EXISTS"
	CodeNotCompleted        = "RESERVATION_NOT_COMPLETED"
	CodeFavoriteExists      = "FAVORITE_EXISTS"
	CodeFavoriteNotFound    = "FAVORITE_NOT_FOUND"
	CodeInternal            = "INTERNAL"
)

// Error is the failure type returned by every service operation.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts the service error from err's chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	se, ok := AsError(err)
	return ok && se.Code == code
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func invalid(format string, args ...any) *Error {
	return newError(KindValidation, CodeValidation, fmt.Sprintf(format, args...))
}

func forbidden(msg string) *Error {
	return newError(KindForbidden, CodeForbidden, msg)
}

func errTableNotFound(id uint64) *Error {
	return newError(KindNotFound, CodeTableNotFound, fmt.Sprintf("table %d not found", id))
}

func errTableUnavailable(id uint64) *Error {
	return newError(KindConflict, CodeTableUnavailable, fmt.Sprintf("table %d is not available", id))
}

func errRestaurantNotFound(id uint64) *Error {
	return newError(KindNotFound, CodeRestaurantNotFound, fmt.Sprintf("restaurant %d not found", id))
}

func errReservationNotFound(id uint64) *Error {
	return newError(KindNotFound, CodeReservationNotFound, fmt.Sprintf("reservation %d not found", id))
}

// internal wraps an unexpected store or broker failure.  The message stays
// generic; the cause is kept for logs.
func internal(op string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Code: CodeInternal, Message: op + " failed", Err: err}
}
