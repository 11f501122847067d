package inbox_errors

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyContent      = errors.New("message content is empty")
	ErrNotSender         = errors.New("not the sender of this message")
	ErrSendInFlight      = errors.New("a send is already in flight")
	ErrNoCounterpart     = errors.New("no counterpart in conversation")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrRemoteRejected    = errors.New("remote service rejected the request")
)

// NowPtr returns a pointer to current time
func NowPtr() *time.Time {
	now := time.Now()
	return &now
}
