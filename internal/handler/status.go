package handler

import (
	"errors"
	"net/http"

	inbox_errors "unistay-inbox/pkg/errors"
)

// statusFor maps sentinel errors onto the HTTP status and machine code the
// SPA switches on.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, inbox_errors.ErrEmptyContent),
		errors.Is(err, inbox_errors.ErrNoCounterpart),
		errors.Is(err, inbox_errors.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, inbox_errors.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, inbox_errors.ErrNotSender),
		errors.Is(err, inbox_errors.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, inbox_errors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, inbox_errors.ErrSendInFlight):
		return http.StatusConflict, "SEND_IN_FLIGHT"
	case errors.Is(err, inbox_errors.ErrRemoteUnavailable):
		return http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "REQUEST_FAILED"
	}
}
