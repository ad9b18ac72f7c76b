package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/service/auth/tokencodec"
)

const (
	defaultAccessTokenTTL  = time.Hour
	defaultSigningMethod   = tokencodec.DefaultAlg
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token manager with sensible default
type Config struct {
	// Secret keys to sign access and refresh tokens
	// Both required and must differ
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Time source, time.Now if not set
	Now func() time.Time
}

type TokenManager struct {
	codec *tokencodec.Codec

	accessKey  []byte
	refreshKey []byte

	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	switch {
	case cfg.AccessSecret == "":
		return nil, fmt.Errorf("%w: access token secret must not be empty", apperrors.ErrConfig)
	case cfg.RefreshSecret == "":
		return nil, fmt.Errorf("%w: refresh token secret must not be empty", apperrors.ErrConfig)
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", apperrors.ErrConfig)
	case cfg.AccessTTL < 0 || cfg.RefreshTTL < 0:
		return nil, fmt.Errorf("%w: token lifetime must be positive", apperrors.ErrConfig)
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	codec, err := tokencodec.New(cfg.Alg, tokencodec.WithClock(cfg.Now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConfig, err)
	}

	return &TokenManager{
		codec:      codec,
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}, nil
}

func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// GeneratePair issues fresh access and refresh tokens for the account.
// Both tokens share issued at but have own token id
func (m *TokenManager) GeneratePair(account models.Account) (models.TokenPair, error) {
	now := m.now().UTC().Truncate(time.Second)

	issue := func(kind models.TokenKind, ttl time.Duration, key []byte) (string, time.Time, error) {
		claims := models.TokenClaims{
			Subject:   account.ID,
			Email:     account.Email,
			Role:      account.Role,
			IssuedAt:  now,
			ExpiresAt: now.Add(ttl),
			TokenID:   uuid.NewString(),
			Kind:      kind,
		}
		token, err := m.codec.Sign(claims, key)
		return token, claims.ExpiresAt, err
	}

	access, accessExpiresAt, err := issue(models.TokenKindAccess, m.accessTTL, m.accessKey)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	refresh, refreshExpiresAt, err := issue(models.TokenKindRefresh, m.refreshTTL, m.refreshKey)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	return models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        accessExpiresAt.Unix(),
		RefreshExpiresIn: refreshExpiresAt.Unix(),
	}, nil
}

// Parse and validate access token
func (m *TokenManager) ParseAccess(token string) (models.TokenClaims, error) {
	return m.codec.Verify(token, m.accessKey, models.TokenKindAccess)
}

// Parse and validate refresh token
func (m *TokenManager) ParseRefresh(token string) (models.TokenClaims, error) {
	claims, err := m.codec.Verify(token, m.refreshKey, models.TokenKindRefresh)
	if errors.Is(err, tokencodec.ErrInvalidSignature) {
		// Access token presented as refresh one fails on the signature, since keys differ.
		// Report it as kind mismatch when it is really an access token
		if _, accessErr := m.ParseAccess(token); accessErr == nil {
			return claims, fmt.Errorf("%w: access token used as refresh", tokencodec.ErrWrongKind)
		}
	}
	return claims, err
}
