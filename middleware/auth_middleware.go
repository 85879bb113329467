package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/smontes/catalog-api/models"
	"github.com/smontes/catalog-api/token"
	"github.com/smontes/catalog-api/utils"
	"go.uber.org/zap"
)

// bearerPrefix is the literal scheme prefix the gate recognizes,
// matched case-sensitively.
const bearerPrefix = "Bearer "

// TokenValidator verifies a compact token and returns the embedded principal
type TokenValidator interface {
	Validate(tokenString, expectedSubject string) (token.Principal, error)
}

// UserDirectory resolves a token subject to a current account. The token's
// authority claims stay authoritative for the grant; the lookup only
// confirms the account still exists.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthMiddleware authenticates inbound requests from bearer tokens
type AuthMiddleware struct {
	validator TokenValidator
	directory UserDirectory
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, directory UserDirectory, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		directory: directory,
		logger:    logger,
	}
}

// Authenticate is the per-request authentication gate. It extracts the
// bearer token, validates it, reconciles the subject against the user
// directory and, on success, binds the principal to the request context.
//
// The gate never rejects a request itself: a missing, malformed, invalid or
// unresolvable token simply leaves the request unauthenticated and lets the
// per-endpoint authorization middleware decide the outcome. Failure kinds
// are logged but never surfaced in the response, so callers cannot
// distinguish a bad signature from an expired token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimiddleware.GetReqID(ctx)

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		candidate := header[len(bearerPrefix):]
		principal, err := m.validator.Validate(candidate, "")
		if err != nil {
			m.logger.Warn("token rejected",
				zap.String("request_id", requestID),
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if _, err := m.directory.GetByEmail(ctx, principal.Subject); err != nil {
			m.logger.Warn("token subject not resolvable",
				zap.String("request_id", requestID),
				zap.String("sub", principal.Subject),
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("sub", principal.Subject))

		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
	})
}

// RequireAuthority is a middleware that requires an authenticated principal
// holding the given authority. This is where unauthenticated requests turn
// into 401s, not in the gate.
func (m *AuthMiddleware) RequireAuthority(authority string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := chimiddleware.GetReqID(ctx)

			principal, ok := PrincipalFromContext(ctx)
			if !ok {
				m.logger.Warn("unauthenticated request to protected endpoint",
					zap.String("request_id", requestID),
					zap.String("required_authority", authority))
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if !principal.HasAuthority(authority) {
				m.logger.Warn("insufficient authorities",
					zap.String("request_id", requestID),
					zap.String("sub", principal.Subject),
					zap.String("required_authority", authority))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated is a middleware that requires any authenticated
// principal, regardless of authorities.
func (m *AuthMiddleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
