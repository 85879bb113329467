package middleware

import (
	"context"

	"github.com/smontes/catalog-api/token"
)

// Context key type to avoid collisions
type contextKey string

// principalKey is the context key for the authenticated principal
const principalKey contextKey = "principal"

// WithPrincipal binds the authenticated principal to the request context.
// The binding lives exactly as long as the request: it is never stored
// anywhere shared, so concurrent requests cannot observe each other's
// identity.
func WithPrincipal(ctx context.Context, principal token.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated principal from the
// context. The second return is false for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (token.Principal, bool) {
	if val := ctx.Value(principalKey); val != nil {
		if principal, ok := val.(token.Principal); ok {
			return principal, true
		}
	}
	return token.Principal{}, false
}
