// Package e2e runs the whole http stack over real postgres.
package e2e

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/streamhub/internal/handlers"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/metrics"
	"github.com/nkiryanov/streamhub/internal/repository/postgres"
	"github.com/nkiryanov/streamhub/internal/service/account"
	"github.com/nkiryanov/streamhub/internal/service/auth"
	"github.com/nkiryanov/streamhub/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/streamhub/internal/service/catalog"
	"github.com/nkiryanov/streamhub/internal/testutil"
)

type Services struct {
	AuthService    *auth.AuthService
	AccountService *account.AccountService
	CatalogService *catalog.CatalogService
}

// Create db transaction and run server in with that connection (one connection cause one transaction)
// Requests must be sent one by one: transaction can't be used concurrently
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)
		hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}

		tokenManager, err := tokenmanager.New(tokenmanager.Config{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})
		require.NoError(t, err, "token manager should be created without errors")

		m := metrics.New()
		as, err := auth.NewService(auth.Config{Hasher: hasher, Observer: m}, tokenManager, storage.Account())
		require.NoError(t, err, "auth service starting error", err)

		s := Services{
			AuthService:    as,
			AccountService: account.NewService(hasher, storage.Account()),
			CatalogService: catalog.NewService(storage.Video()),
		}

		router, err := handlers.NewRouter(handlers.Config{}, handlers.Services{
			Auth:     s.AuthService,
			Accounts: s.AccountService,
			Videos:   s.CatalogService,
			Catalog:  s.CatalogService,
		}, m, logger.NewNoOpLogger())
		require.NoError(t, err)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, s)
	})
}

// Do sends JSON request with optional bearer token and returns response with read body
func Do(t *testing.T, method, url, token, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	return resp, string(data)
}
