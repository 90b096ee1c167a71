package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/apperr"
	"github.com/k1ngsalm0n/pomodoro-plant/go/internal/web"
)

type claimsKey struct{}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified claims in the request context
func RequireAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				web.Error(w, r, apperr.Auth("require auth", "No token provided"))
				return
			}

			claims, err := v.Verify(token)
			if err != nil {
				web.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying claims
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by RequireAuth
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

// CurrentUser returns the claims of an authenticated request, or an auth
// error when the handler was mounted without RequireAuth
func CurrentUser(ctx context.Context) (*Claims, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, apperr.Auth("current user", "No token provided")
	}
	return claims, nil
}
