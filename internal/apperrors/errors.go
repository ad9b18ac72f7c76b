package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes. Concrete errors below wrap exactly one of them, so callers
// may match either the concrete error or its class with errors.Is
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
	ErrConfig       = errors.New("bad configuration")
)

var (
	ErrAccountAlreadyExists = fmt.Errorf("account already exists: %w", ErrConflict)
	ErrAccountNotFound      = fmt.Errorf("account not found: %w", ErrNotFound)
	ErrInvalidCredentials   = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrInvalidRole          = fmt.Errorf("invalid role: %w", ErrValidation)
	ErrRoleChangeForbidden  = fmt.Errorf("role can't be changed with update: %w", ErrValidation)

	ErrVideoNotFound = fmt.Errorf("video not found: %w", ErrNotFound)
)

// HTTPStatus maps error class to the response status code.
// Unknown errors are internal ones
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the only error text allowed to reach a client
func PublicMessage(err error) string {
	return http.StatusText(HTTPStatus(err))
}
