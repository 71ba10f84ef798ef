// Package apperr defines the error kinds shared by services and handlers.
//
// Every error built here unwraps to one of the kind sentinels, so callers can
// test either for a specific error value (repository.ErrWeeklyGoalNotFound)
// or for its kind (apperr.ErrNotFound) with errors.Is.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// Message is the client-facing text, without the wrapped cause.
func (e *Error) Message() string {
	return e.msg
}

func Validation(msg string) error {
	return &Error{kind: ErrValidation, msg: msg}
}

func NotFound(msg string) error {
	return &Error{kind: ErrNotFound, msg: msg}
}

// Conflict is reserved for storage-level races surfaced by repositories.
func Conflict(msg string, cause error) error {
	return &Error{kind: ErrConflict, msg: msg, cause: cause}
}

// Status maps an error to the HTTP status a handler should answer with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns text that is safe to show to clients. Unclassified errors
// collapse to a generic message so internals never leak.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return "Server error"
}
