package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmulenga/kwacha-commerce/internal/api"
)

type contextKey string

const principalKey contextKey = "principal_id"

// PrincipalID returns the authenticated user's id from the request context.
func PrincipalID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(principalKey).(int64)
	return id, ok
}

// Middleware validates a Bearer token and injects the principal id into the
// request context.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "missing bearer token")
				return
			}
			id, err := svc.Verify(token)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
