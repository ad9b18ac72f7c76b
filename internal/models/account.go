package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Account struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountSummary is the only outward projection of an account: never carries the hash
type AccountSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}

func (a Account) Summary() AccountSummary {
	return AccountSummary{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Role:  a.Role,
	}
}

// AccountCreate is what a store needs to persist new account.
// Email must be normalized and password already hashed
type AccountCreate struct {
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}

// AccountPatch holds optional profile fields. Role is not here on purpose:
// role is set on creation only
type AccountPatch struct {
	Name  *string
	Email *string
}

// NormalizeEmail makes email comparison case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
