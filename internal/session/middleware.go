package session

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

// CookieName carries the session token for the server-rendered dashboard.
// API clients send the same token as a bearer Authorization header.
const CookieName = "mkdw_session"

// Middleware resolves the caller's session, if any, and stashes it in the
// request context. Requests without a valid token pass through anonymous.
func Middleware(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token != "" {
				sess, err := store.Validate(r.Context(), token)
				if err == nil && sess != nil {
					r = r.WithContext(context.WithValue(r.Context(), contextKey{}, sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromContext returns the session stored by Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok
}

// TokenFromRequest extracts the session token from the Authorization
// header or the dashboard cookie.
func TokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
