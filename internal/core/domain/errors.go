package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error that leaves the service layer wraps exactly one of
// these so the HTTP layer can pick a status code with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

// ErrInvalidToken is returned when a session token is malformed, expired or
// signed with the wrong key.
var ErrInvalidToken = fmt.Errorf("invalid token: %w", ErrUnauthorized)

// Store-level sentinels.
var (
	ErrAccountNotFound      = fmt.Errorf("account %w", ErrNotFound)
	ErrAccountExists        = fmt.Errorf("account already exists: %w", ErrConflict)
	ErrEventNotFound        = fmt.Errorf("event %w", ErrNotFound)
	ErrPresentationNotFound = fmt.Errorf("presentation %w", ErrNotFound)
	ErrTicketNotFound       = fmt.Errorf("ticket %w", ErrNotFound)
)

// Error is a classified error with a client-safe message. The cause, when
// present, is only ever logged.
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

// Message is the text that may be shown to the client.
func (e *Error) Message() string { return e.msg }

// Kind returns the sentinel this error was classified as.
func (e *Error) Kind() error { return e.kind }

// Cause returns the underlying error, if any.
func (e *Error) Cause() error { return e.cause }

// Is matches the kind only. errors.Is reaches the cause through Unwrap.
func (e *Error) Is(target error) bool { return target == e.kind }

func (e *Error) Unwrap() error { return e.cause }

func Validation(msg string) error { return &Error{kind: ErrValidation, msg: msg} }

func NotFound(msg string) error { return &Error{kind: ErrNotFound, msg: msg} }

func Forbidden(msg string) error { return &Error{kind: ErrForbidden, msg: msg} }

func Unauthorized(msg string) error { return &Error{kind: ErrUnauthorized, msg: msg} }

func Conflict(msg string) error { return &Error{kind: ErrConflict, msg: msg} }

// Internal wraps an unexpected failure behind a fixed message.
func Internal(cause error, msg string) error {
	return &Error{kind: ErrInternal, msg: msg, cause: cause}
}
