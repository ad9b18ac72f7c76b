package tokenmanager

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/service/auth/tokencodec"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	testAccount := models.Account{
		ID:    uuid.New(),
		Email: "alice@example.com",
		Name:  "Alice",
		Role:  models.RoleViewer,
	}

	// Clock starts at fixed moment and may be moved by test
	newManager := func(t *testing.T, accessTTL, refreshTTL time.Duration) (*TokenManager, *time.Time) {
		now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
		m, err := New(Config{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     accessTTL,
			RefreshTTL:    refreshTTL,
			Now:           func() time.Time { return now },
		})
		require.NoError(t, err, "token manager should be created without errors")
		return m, &now
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{AccessSecret: "a", RefreshSecret: "r"})
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, []byte("a"), m.accessKey)
		require.Equal(t, []byte("r"), m.refreshKey)
		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, m.refreshTTL, "default refresh token TTL")
		require.Equal(t, defaultSigningMethod, m.codec.Alg(), "default signing method should be set")
	})

	t.Run("new bad config", func(t *testing.T) {
		tests := []struct {
			name string
			cfg  Config
		}{
			{"no access secret", Config{RefreshSecret: "r"}},
			{"no refresh secret", Config{AccessSecret: "a"}},
			{"same secrets", Config{AccessSecret: "s", RefreshSecret: "s"}},
			{"negative ttl", Config{AccessSecret: "a", RefreshSecret: "r", AccessTTL: -time.Second}},
			{"not hmac", Config{AccessSecret: "a", RefreshSecret: "r", Alg: "RS256"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := New(tt.cfg)
				require.ErrorIs(t, err, apperrors.ErrConfig)
			})
		}
	})

	t.Run("GeneratePair", func(t *testing.T) {
		t.Run("return token pair", func(t *testing.T) {
			m, now := newManager(t, time.Hour, 7*24*time.Hour)

			pair, err := m.GeneratePair(testAccount)

			require.NoError(t, err)
			assert.NotEmpty(t, pair.AccessToken, "access token should not be empty")
			assert.NotEmpty(t, pair.RefreshToken, "refresh token should not be empty")
			assert.Equal(t, now.Add(time.Hour).Unix(), pair.ExpiresIn, "expires_in is absolute expiration time")
			assert.Equal(t, now.Add(7*24*time.Hour).Unix(), pair.RefreshExpiresIn)
			assert.Greater(t, pair.RefreshExpiresIn, pair.ExpiresIn)
		})

		t.Run("access claims", func(t *testing.T) {
			m, now := newManager(t, 15*time.Minute, 24*time.Hour)
			pair, err := m.GeneratePair(testAccount)
			require.NoError(t, err)

			claims, err := m.ParseAccess(pair.AccessToken)

			require.NoError(t, err)
			assert.Equal(t, testAccount.ID, claims.Subject)
			assert.Equal(t, testAccount.Email, claims.Email)
			assert.Equal(t, testAccount.Role, claims.Role)
			assert.Equal(t, models.TokenKindAccess, claims.Kind)
			assert.NotEmpty(t, claims.TokenID, "token has to has jti")
			assert.Equal(t, *now, claims.IssuedAt)
			assert.Equal(t, now.Add(15*time.Minute), claims.ExpiresAt)
		})

		t.Run("generate different tokens", func(t *testing.T) {
			m, _ := newManager(t, time.Hour, 24*time.Hour)

			pair1, err := m.GeneratePair(testAccount)
			require.NoError(t, err)
			pair2, err := m.GeneratePair(testAccount)
			require.NoError(t, err)

			assert.NotEqual(t, pair1.AccessToken, pair2.AccessToken, "access tokens should be different")
			assert.NotEqual(t, pair1.RefreshToken, pair2.RefreshToken, "refresh tokens should be different")
		})
	})

	t.Run("ParseAccess", func(t *testing.T) {
		t.Run("not a token", func(t *testing.T) {
			m, _ := newManager(t, time.Hour, 24*time.Hour)

			_, err := m.ParseAccess("invalid token")

			require.ErrorIs(t, err, tokencodec.ErrMalformed)
		})

		t.Run("expired token", func(t *testing.T) {
			m, now := newManager(t, time.Hour, 24*time.Hour)
			pair, err := m.GeneratePair(testAccount)
			require.NoError(t, err)

			*now = now.Add(61 * time.Minute)
			_, err = m.ParseAccess(pair.AccessToken)

			require.ErrorIs(t, err, tokencodec.ErrExpired)
		})

		t.Run("refresh token is not access", func(t *testing.T) {
			m, _ := newManager(t, time.Hour, 24*time.Hour)
			pair, err := m.GeneratePair(testAccount)
			require.NoError(t, err)

			_, err = m.ParseAccess(pair.RefreshToken)

			require.Error(t, err)
		})
	})

	t.Run("ParseRefresh", func(t *testing.T) {
		t.Run("valid token", func(t *testing.T) {
			m, _ := newManager(t, time.Hour, 24*time.Hour)
			pair, err := m.GeneratePair(testAccount)
			require.NoError(t, err)

			claims, err := m.ParseRefresh(pair.RefreshToken)

			require.NoError(t, err)
			require.Equal(t, models.TokenKindRefresh, claims.Kind)
			require.Equal(t, testAccount.ID, claims.Subject)
		})

		t.Run("access token reported as wrong kind", func(t *testing.T) {
			m, _ := newManager(t, time.Hour, 24*time.Hour)
			pair, err := m.GeneratePair(testAccount)
			require.NoError(t, err)

			_, err = m.ParseRefresh(pair.AccessToken)

			require.ErrorIs(t, err, tokencodec.ErrWrongKind)
		})

		t.Run("refresh outlives access", func(t *testing.T) {
			m, now := newManager(t, time.Hour, 24*time.Hour)
			pair, err := m.GeneratePair(testAccount)
			require.NoError(t, err)

			*now = now.Add(2 * time.Hour)
			_, accessErr := m.ParseAccess(pair.AccessToken)
			_, refreshErr := m.ParseRefresh(pair.RefreshToken)

			require.ErrorIs(t, accessErr, tokencodec.ErrExpired)
			require.NoError(t, refreshErr)
		})
	})
}
