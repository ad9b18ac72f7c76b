package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/service/auth"
	"github.com/nkiryanov/streamhub/internal/testutil"
	"github.com/nkiryanov/streamhub/tests/e2e"
)

const (
	RegisterURL = "/auth/register"
	LoginURL    = "/auth/login"
	RefreshURL  = "/auth/refresh"
	UsersURL    = "/auth/users"
)

func Test_Auth(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgres(t)

	t.Run("register, login and refresh", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(_ pgx.Tx, srvURL string, _ e2e.Services) {
			resp, body := e2e.Do(t, http.MethodPost, srvURL+RegisterURL, "", `{"email": "Alice@Example.com", "password": "pw1", "name": "Alice"}`)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)

			var registered struct {
				models.TokenPair
				User models.AccountSummary `json:"user"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &registered))
			require.Equal(t, "alice@example.com", registered.User.Email)
			require.Equal(t, models.RoleViewer, registered.User.Role)
			require.Greater(t, registered.ExpiresIn, time.Now().Unix())
			require.Greater(t, registered.RefreshExpiresIn, registered.ExpiresIn)

			resp, body = e2e.Do(t, http.MethodPost, srvURL+LoginURL, "", `{"email": "alice@example.com", "password": "pw1"}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.Len(t, resp.Cookies(), 1)
			require.Equal(t, "access_token", resp.Cookies()[0].Name)

			var pair models.TokenPair
			require.NoError(t, json.Unmarshal([]byte(body), &pair))

			resp, body = e2e.Do(t, http.MethodPost, srvURL+RefreshURL, "", `{"refresh_token": "`+pair.RefreshToken+`"}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)

			resp, body = e2e.Do(t, http.MethodPost, srvURL+RefreshURL, "", `{"refresh_token": "`+pair.AccessToken+`"}`)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "access token can't refresh")
			require.JSONEq(t, `{"error": "service_error", "message": "Unauthorized"}`, body)
		})
	})

	t.Run("register existed email fails", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(_ pgx.Tx, srvURL string, s e2e.Services) {
			_, _, err := s.AuthService.Register(t.Context(), auth.RegisterParams{Email: "nk@example.com", Password: "pw1", Name: "Tester"})
			require.NoError(t, err)

			resp, body := e2e.Do(t, http.MethodPost, srvURL+RegisterURL, "", `{"email": "NK@example.com", "password": "pw1", "name": "Tester"}`)

			require.Equalf(t, http.StatusConflict, resp.StatusCode, "not expected code. Body: %s", body)
			require.JSONEq(t, `{"error": "service_error", "message": "Conflict"}`, body)
			require.Empty(t, resp.Cookies())
			require.NotContains(t, resp.Header, "Authorization", "Authorization header should not be set for failed register")
		})
	})

	t.Run("login with wrong password", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(_ pgx.Tx, srvURL string, s e2e.Services) {
			_, _, err := s.AuthService.Register(t.Context(), auth.RegisterParams{Email: "nk@example.com", Password: "pw1", Name: "Tester"})
			require.NoError(t, err)

			resp, body := e2e.Do(t, http.MethodPost, srvURL+LoginURL, "", `{"email": "nk@example.com", "password": "pw2"}`)

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.JSONEq(t, `{"error": "service_error", "message": "Unauthorized"}`, body)
		})
	})

	t.Run("admin manages users", func(t *testing.T) {
		e2e.ServeWithTx(pg.Pool, t, func(_ pgx.Tx, srvURL string, s e2e.Services) {
			_, pair, err := s.AuthService.Register(t.Context(), auth.RegisterParams{Email: "admin@example.com", Password: "pw1", Name: "Tester", Role: "admin"})
			require.NoError(t, err)
			admin := pair.AccessToken

			resp, body := e2e.Do(t, http.MethodPost, srvURL+UsersURL, admin, `{"email": "bob@example.com", "password": "pw1", "name": "Bob"}`)
			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", body)
			var bob struct {
				ID string `json:"id"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &bob))

			resp, body = e2e.Do(t, http.MethodGet, srvURL+UsersURL+"/count", admin, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"total_users": 2}`, body)

			resp, body = e2e.Do(t, http.MethodPut, srvURL+UsersURL+"/"+bob.ID, admin, `{"name": "Robert"}`)
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", body)
			require.Contains(t, body, `"name":"Robert"`)

			resp, body = e2e.Do(t, http.MethodGet, srvURL+UsersURL+"/email/bob@example.com", admin, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Contains(t, body, bob.ID)

			resp, body = e2e.Do(t, http.MethodDelete, srvURL+UsersURL+"/"+bob.ID, admin, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.JSONEq(t, `{"message": "user deleted"}`, body)

			resp, _ = e2e.Do(t, http.MethodGet, srvURL+UsersURL+"/"+bob.ID, admin, "")
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})
}
