package claimsctx

import (
	"context"

	"github.com/nkiryanov/streamhub/internal/models"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Create a new context with verified access token claims
func New(ctx context.Context, c models.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// Extract the claims from the context
func FromContext(ctx context.Context) (models.TokenClaims, bool) {
	c, ok := ctx.Value(claimsKey).(models.TokenClaims)
	return c, ok
}
