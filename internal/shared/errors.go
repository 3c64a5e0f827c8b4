package shared

import "errors"

var (
	// ErrValidation indicates malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated indicates a request without credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken indicates a bearer token that failed verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden indicates a role outside the route policy.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a duplicate username or email.
	ErrConflict = errors.New("conflict")
	// ErrNotAuthorized indicates an ownership violation.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTooManyAttempts occurs when the login throttle rejects a request.
	ErrTooManyAttempts = errors.New("too many attempts")
)
