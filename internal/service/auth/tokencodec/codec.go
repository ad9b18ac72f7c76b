// Package tokencodec signs and verifies JWT (compact JWS) tokens carrying TokenClaims.
//
// Verification errors are classified as ErrMalformed, ErrInvalidSignature, ErrExpired or ErrWrongKind.
// The classes are for logs only: callers facing clients must collapse them to "unauthorized".
package tokencodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/streamhub/internal/models"
)

const DefaultAlg = "HS256"

var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrWrongKind        = errors.New("token kind mismatch")
)

// Wire payload
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string           `json:"email"`
	Role  string           `json:"role"`
	Kind  models.TokenKind `json:"token_type"`
}

type Codec struct {
	method jwt.SigningMethod
	now    func() time.Time
}

type Option func(*Codec)

// WithClock replaces time source used to check expiration
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// New creates codec for HMAC algorithm (HS256, HS384, HS512). Empty alg means HS256
func New(alg string, opts ...Option) (*Codec, error) {
	if alg == "" {
		alg = DefaultAlg
	}

	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q, only HMAC ones allowed", alg)
	}

	c := &Codec{method: method, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Codec) Alg() string {
	return c.method.Alg()
}

// Sign encodes claims and signs them with the secret
func (c *Codec) Sign(claims models.TokenClaims, secret []byte) (string, error) {
	switch {
	case len(secret) == 0:
		return "", errors.New("signing secret is empty")
	case claims.Kind != models.TokenKindAccess && claims.Kind != models.TokenKindRefresh:
		return "", fmt.Errorf("unknown token kind %q", claims.Kind)
	case !claims.ExpiresAt.After(claims.IssuedAt):
		return "", errors.New("token must expire after it was issued")
	}

	token := jwt.NewWithClaims(c.method, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject.String(),
			ID:        claims.TokenID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
		Email: claims.Email,
		Role:  claims.Role.String(),
		Kind:  claims.Kind,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error while signing token. Err: %w", err)
	}

	return signed, nil
}

// Verify checks signature, expiration and kind, then returns decoded claims
func (c *Codec) Verify(token string, secret []byte, expected models.TokenKind) (models.TokenClaims, error) {
	var tc tokenClaims

	_, err := jwt.ParseWithClaims(
		token,
		&tc,
		func(*jwt.Token) (any, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.TokenClaims{}, fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return models.TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return models.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if tc.Kind != expected {
		return models.TokenClaims{}, fmt.Errorf("%w: want %s, got %q", ErrWrongKind, expected, tc.Kind)
	}

	return tc.decode()
}

func (tc tokenClaims) decode() (models.TokenClaims, error) {
	subject, err := uuid.Parse(tc.Subject)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: bad subject: %v", ErrMalformed, err)
	}

	role, err := models.ParseRole(tc.Role)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if tc.IssuedAt == nil {
		return models.TokenClaims{}, fmt.Errorf("%w: no issued at", ErrMalformed)
	}

	return models.TokenClaims{
		Subject:   subject,
		Email:     tc.Email,
		Role:      role,
		IssuedAt:  tc.IssuedAt.UTC(),
		ExpiresAt: tc.ExpiresAt.UTC(),
		TokenID:   tc.ID,
		Kind:      tc.Kind,
	}, nil
}
