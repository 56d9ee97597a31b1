package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Services wrap these with a user-facing message via
// Wrap; handlers map the kind to an HTTP status with StatusCode.
var (
	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation error")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("resource already exists")
	// ErrNotFound indicates that no matching entity exists.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized covers bad credentials and bad, expired, reused or
	// missing tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUpload indicates an external asset store failure.
	ErrUpload = errors.New("asset upload failed")
	// ErrInternal indicates an unexpected persistence failure.
	ErrInternal = errors.New("internal error")
)

// ErrRefreshTokenReused is raised when a refresh token that was already
// rotated away is presented again. It matches ErrUnauthorized via errors.Is
// but stays distinguishable so token theft can be spotted in logs.
var ErrRefreshTokenReused = Wrap(ErrUnauthorized, "Refresh token is expired or used")

type appError struct {
	kind error
	msg  string
}

func (e *appError) Error() string { return e.msg }
func (e *appError) Unwrap() error { return e.kind }

// Wrap attaches a stable user-facing message to one of the sentinel kinds.
func Wrap(kind error, msg string) error {
	return &appError{kind: kind, msg: msg}
}

// Internal marks an unexpected failure. The cause stays in the error chain
// for logging; Message hides it from clients.
func Internal(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

// StatusCode maps an error to its HTTP status. Unknown errors are treated as
// internal so nothing unexpected leaks to the client.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for an error. Internal failures get
// a generic message; their details belong in the logs only.
func Message(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
