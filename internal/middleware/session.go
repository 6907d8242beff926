// Package middleware provides HTTP middlewares for sessions, logging and metrics.
package middleware

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/atinyakov/restofinder/internal/session"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionSource resolves the session of a request.
type SessionSource interface {
	Current(r *http.Request) (*session.Session, error)
}

// RequireSession lets requests with a valid session through and redirects
// everything else to the login page at "/".
//
// The session is stored in the request context for SessionFromContext.
func RequireSession(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := src.Current(r)
			if err != nil {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireAPISession is RequireSession for the JSON API: requests without a
// valid session get 401 with a JSON error body.
func RequireAPISession(src SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := src.Current(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext extracts the session stored by RequireSession or
// RequireAPISession. Returns nil if not found.
func SessionFromContext(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return s
	}
	return nil
}
