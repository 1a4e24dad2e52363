package ai

import (
	"errors"
	"fmt"
)

// Sentinel errors for chat-completion calls.
var (
	ErrDisabled     = errors.New("ai: no API token configured")
	ErrUnauthorized = errors.New("ai: unauthorized")
	ErrRateLimited  = errors.New("ai: rate limited by server")
	ErrBadRequest   = errors.New("ai: bad request")
	ErrServer       = errors.New("ai: server error")
	ErrEmptyReply   = errors.New("ai: empty reply")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // Operation: "chat", "tags", "suggestions", "translate"
	Status int    // HTTP status, 0 when the request never completed
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ai %s [%d]: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, status int, err error) error {
	return &Error{Op: op, Status: status, Err: err}
}

// errorForStatus maps a non-200 response to a sentinel.
func errorForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}
