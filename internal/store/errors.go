package store

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a persistence error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)

	generic bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors with the same code. A specific sentinel such as
// ErrNoteNotFound only matches itself, while the generic ErrNotFound
// matches every not-found variant.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.generic || e.Message == t.Message
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Generic sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
		generic: true,
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
		generic: true,
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
		generic: true,
	}
)

// Entity-specific errors.
var (
	ErrNoteNotFound     = ErrNotFound.WithMessage("Note not found")
	ErrTagNotFound      = ErrNotFound.WithMessage("Tag not found")
	ErrTagNotLinked     = ErrNotFound.WithMessage("Tag not attached to note")
	ErrTagExists        = ErrAlreadyExists.WithMessage("Tag already exists")
	ErrTagAlreadyLinked = ErrAlreadyExists.WithMessage("Tag already added to note")
)
