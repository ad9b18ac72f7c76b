package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/models"
	"github.com/nkiryanov/streamhub/internal/repository/memory"
	"github.com/nkiryanov/streamhub/internal/service/account"
	"github.com/nkiryanov/streamhub/internal/service/auth"
	"github.com/nkiryanov/streamhub/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/streamhub/internal/service/catalog"
)

// Production services over in-memory storage behind real http server
type testAPI struct {
	url     string
	auth    *auth.AuthService
	catalog *catalog.CatalogService
}

func newTestAPI(t *testing.T, cfg Config) *testAPI {
	t.Helper()

	storage := memory.NewStorage()
	hasher := auth.BcryptHasher{Cost: bcrypt.MinCost}

	tokens, err := tokenmanager.New(tokenmanager.Config{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})
	require.NoError(t, err, "token manager should be created without errors")

	authService, err := auth.NewService(auth.Config{Hasher: hasher}, tokens, storage.Account())
	require.NoError(t, err, "auth service starting error")

	catalogService := catalog.NewService(storage.Video())

	h, err := NewRouter(cfg, Services{
		Auth:     authService,
		Accounts: account.NewService(hasher, storage.Account()),
		Videos:   catalogService,
		Catalog:  catalogService,
	}, nil, logger.NewNoOpLogger())
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &testAPI{url: srv.URL, auth: authService, catalog: catalogService}
}

// tokenFor registers account with the role and returns its access token
func (api *testAPI) tokenFor(t *testing.T, email string, role models.Role) string {
	t.Helper()

	_, pair, err := api.auth.Register(t.Context(), auth.RegisterParams{Email: email, Password: "password", Name: "Tester", Role: string(role)})
	require.NoError(t, err)
	return pair.AccessToken
}

type response struct {
	code   int
	body   string
	header http.Header
	cookie []*http.Cookie
}

// do sends request with optional bearer token and JSON body
func (api *testAPI) do(t *testing.T, method, path, token, body string) response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, api.url+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	return response{code: resp.StatusCode, body: string(data), header: resp.Header, cookie: resp.Cookies()}
}
