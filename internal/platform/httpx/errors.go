// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/quill-blog/quill/internal/shared"
)

// Default client-facing messages per error class.
const (
	MsgUnauthenticated = "You must be logged in!"
	MsgInvalidToken    = "Token is not valid"
	MsgServerError     = "Server error"
)

// StatusFor maps a domain error to its HTTP status. NotFound, Conflict and
// NotAuthorized answer 400 for compatibility with existing clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrNotFound),
		errors.Is(err, shared.ErrConflict),
		errors.Is(err, shared.ErrNotAuthorized),
		errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrInvalidToken), errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err with the given message, or a generic one when the
// error is not a known domain error.
func RespondError(w http.ResponseWriter, err error, msg string) {
	status := StatusFor(err)
	switch status {
	case http.StatusInternalServerError:
		msg = MsgServerError
	case http.StatusUnauthorized:
		if msg == "" {
			msg = MsgUnauthenticated
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	Message(w, status, msg)
}
