package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vgestion/vehiculos-backend/internal/domain"
	"github.com/vgestion/vehiculos-backend/internal/httpx"
	"github.com/vgestion/vehiculos-backend/internal/models"
)

// Resolver turns a presented bearer token into a user. Implemented by the
// auth service; declared here so the middleware does not depend on it.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

type ctxKey int

const userKey ctxKey = 0

// UserFromContext returns the authenticated user injected by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// RequireAuth validates the Authorization bearer header and injects the
// resolved user into the request context. Resolution happens fresh on
// every request; tokens carry no server-side state.
func RequireAuth(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.DomainError(w, domain.ErrUnauthenticated)
				return
			}

			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				httpx.DomainError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
