package models

import (
	"fmt"
	"strings"

	"github.com/nkiryanov/streamhub/internal/apperrors"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"

	// The lowest privileged role. Used when role is not specified
	DefaultRole = RoleViewer
)

// ParseRole is the single place raw strings become roles.
// "user" is accepted as a legacy name of viewer
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleViewer), "user":
		return RoleViewer, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, s)
	}
}

// Satisfies reports whether the role passes a gate that requires `required`.
// Admin passes every gate
func (r Role) Satisfies(required Role) bool {
	return r == required || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
