package httpserver

import (
	"context"
	"net/http"
	"strings"

	"farmdirect/internal/security"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity returns a new context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id *security.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// CurrentIdentity extracts the authenticated identity from context, if any.
func CurrentIdentity(r *http.Request) *security.Identity {
	if v := r.Context().Value(identityContextKey); v != nil {
		if id, ok := v.(*security.Identity); ok {
			return id
		}
	}
	return nil
}

// AuthMiddleware validates the Bearer token and attaches the decoded
// identity to the request context. The token is self-contained: no database
// lookup happens here.
func AuthMiddleware(tokens *security.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid Authorization header"})
				return
			}
			tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])

			identity, err := tokens.Verify(tokenStr)
			if err != nil || identity == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid token"})
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
