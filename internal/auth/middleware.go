package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

var claimsKey contextKey

// RequestToken extracts the bearer token from the Authorization header or,
// for endpoints that cannot set headers (the websocket upgrade), from the
// "token" query parameter. Empty string means no token was presented.
func RequestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// AuthMiddleware rejects requests without a valid token and stores the
// validated claims in the request context.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := RequestToken(r)
		if token == "" {
			errorJSON(w, http.StatusUnauthorized, "missing or malformed credentials")
			return
		}

		claims, err := s.ValidateToken(token)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// WithClaims returns a context carrying the validated identity.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the identity stored by AuthMiddleware. The zero
// value means the request was not authenticated.
func ClaimsFromContext(ctx context.Context) Claims {
	claims, _ := ctx.Value(claimsKey).(Claims)
	return claims
}

// UserIDFromContext is shorthand for ClaimsFromContext(ctx).UserID.
func UserIDFromContext(ctx context.Context) string {
	return ClaimsFromContext(ctx).UserID
}
