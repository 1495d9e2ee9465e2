package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mikrodash/mikrodash/internal/auth"
	"github.com/mikrodash/mikrodash/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityFromContext returns the authenticated identity attached by
// BearerAuth, or nil outside a guarded route.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return id
}

// BearerAuth is the single authorization choke point for tenant-scoped
// routes. It verifies the bearer token and attaches the (user, tenant)
// identity to the request context; handlers must take the tenant id from
// there and never from client input. Malformed, badly signed, and expired
// tokens all get the same response so the failure cause is not an oracle.
func BearerAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "authentication token required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "authentication token required")
				return
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, &identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
