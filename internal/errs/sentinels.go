// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across store/API layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoSession indicates no authenticated session is available.
	ErrNoSession = errors.New("no active session")

	// ErrUnauthorized indicates failed authentication (wrong or expired OTP/token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates input rejected before any network call.
	ErrValidation = errors.New("validation failed")
)

// APIError carries the server-supplied message and the HTTP status it arrived
// with. Status 0 means the request never produced a response (transport error).
type APIError struct {
	Message string
	Status  int
	Err     error // wrapped sentinel, if any
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError builds an APIError, mapping 401 onto ErrUnauthorized so callers
// can distinguish wrong credentials from generic failures.
func NewAPIError(message string, status int) *APIError {
	var wrapped error
	switch status {
	case 401:
		wrapped = ErrUnauthorized
	case 404:
		wrapped = ErrNotFound
	}
	return &APIError{Message: message, Status: status, Err: wrapped}
}
