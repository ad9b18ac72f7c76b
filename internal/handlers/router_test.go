package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/streamhub/internal/apperrors"
	"github.com/nkiryanov/streamhub/internal/logger"
	"github.com/nkiryanov/streamhub/internal/metrics"
)

func TestNewRouter(t *testing.T) {
	t.Parallel()

	t.Run("root routes", func(t *testing.T) {
		api := newTestAPI(t, Config{})

		root := api.do(t, http.MethodGet, "/", "", "")
		require.Equal(t, http.StatusOK, root.code)
		require.Equal(t, "StreamHub API - Running", root.body)

		health := api.do(t, http.MethodGet, "/health", "", "")
		require.Equal(t, http.StatusOK, health.code)
		require.JSONEq(t, `{"status": "ok"}`, health.body)

		missing := api.do(t, http.MethodGet, "/nowhere", "", "")
		require.Equal(t, http.StatusNotFound, missing.code)
		require.JSONEq(t, `{"error": "service_error", "message": "Not Found"}`, missing.body)

		notAllowed := api.do(t, http.MethodGet, "/auth/login", "", "")
		require.Equal(t, http.StatusMethodNotAllowed, notAllowed.code)
	})

	t.Run("only selected apis mounted", func(t *testing.T) {
		api := newTestAPI(t, Config{APIs: []string{APIViewer}})

		require.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/viewer/health", "", "").code)
		require.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/auth/health", "", "").code)
		require.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/admin/health", "", "").code)
	})

	t.Run("unknown api", func(t *testing.T) {
		_, err := NewRouter(Config{APIs: []string{"billing"}}, Services{}, nil, logger.NewNoOpLogger())

		require.Error(t, err)
		require.True(t, errors.Is(err, apperrors.ErrConfig))
	})

	t.Run("metrics", func(t *testing.T) {
		m := metrics.New()
		h, err := NewRouter(Config{APIs: []string{APIAuth}}, Services{}, m, logger.NewNoOpLogger())
		require.NoError(t, err)

		srv := httptest.NewServer(h)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/auth/health")
		require.NoError(t, err)
		_ = resp.Body.Close()

		resp, err = http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() // nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, string(body), `streamhub_http_requests_total{method="GET",route="/auth/health",status="200"} 1`)
	})

	t.Run("cors", func(t *testing.T) {
		h, err := NewRouter(Config{CORSAllowedOrigins: []string{"https://app.example.com"}}, Services{}, nil, logger.NewNoOpLogger())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodOptions, "/viewer/videos", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		require.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})
}
