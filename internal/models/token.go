package models

import (
	"time"

	"github.com/google/uuid"
)

type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// TokenClaims is the decoded payload of access or refresh token
type TokenClaims struct {
	Subject   uuid.UUID
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
	Kind      TokenKind
}

// TokenPair issued by TokenManager and AuthService.
// ExpiresIn and RefreshExpiresIn are absolute unix timestamps (seconds) of expiration, not durations
type TokenPair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}
