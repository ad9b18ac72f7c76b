package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", ErrInvalidRole, http.StatusBadRequest},
		{"role change", ErrRoleChangeForbidden, http.StatusBadRequest},
		{"conflict", ErrAccountAlreadyExists, http.StatusConflict},
		{"unauthorized", ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"account not found", ErrAccountNotFound, http.StatusNotFound},
		{"video not found wrapped", fmt.Errorf("get video: %w", ErrVideoNotFound), http.StatusNotFound},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	err := fmt.Errorf("token verification: %w: %w", ErrUnauthorized, errors.New("token is expired"))

	require.Equal(t, "Unauthorized", PublicMessage(err), "internal reason must not leak")
}
