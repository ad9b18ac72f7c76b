package middleware

import (
	"net/http"

	"github.com/nkiryanov/streamhub/internal/handlers/claimsctx"
	"github.com/nkiryanov/streamhub/internal/handlers/render"
	"github.com/nkiryanov/streamhub/internal/models"
)

type authenticator interface {
	ClaimsFromRequest(r *http.Request) (models.TokenClaims, error)
}

// Authenticate puts access token claims to request context or responds 401.
// Reason of the failure is never exposed
func Authenticate(a authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := a.ClaimsFromRequest(r)
			if err != nil {
				render.ServiceError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			ctx := claimsctx.New(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets request through only if authenticated role satisfies required one.
// Has to be used after Authenticate
func RequireRole(required models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsctx.FromContext(r.Context())
			if !ok {
				render.ServiceError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			if !claims.Role.Satisfies(required) {
				render.ServiceError(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
