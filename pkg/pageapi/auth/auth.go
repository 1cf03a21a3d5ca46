// Package auth gates mutating requests behind a shared bearer token or an
// externally supplied "session authenticated" signal from the host
// application.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
)

// ErrAuthRequired indicates a request that presented neither a valid bearer
// token nor an authenticated session.
var ErrAuthRequired = errors.New("authentication required")

const bearerPrefix = "Bearer "

// Authenticator validates request credentials against a configured secret.
// The zero value (no token) accepts only session-authenticated requests.
type Authenticator struct {
	token string
}

// New creates an authenticator with the configured shared token. An empty
// token disables bearer authentication; session auth still applies.
func New(token string) *Authenticator {
	return &Authenticator{token: token}
}

// Authenticate checks the Authorization header value against the configured
// token using a constant-time comparison, then falls back to the session
// flag. Returns ErrAuthRequired when neither grants access.
func (a *Authenticator) Authenticate(authHeader string, sessionAuthenticated bool) error {
	if a.token != "" && strings.HasPrefix(authHeader, bearerPrefix) {
		candidate := authHeader[len(bearerPrefix):]
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(a.token)) == 1 {
			return nil
		}
	}

	if sessionAuthenticated {
		return nil
	}
	return ErrAuthRequired
}

type contextKey struct{}

// WithSession marks the request context as carrying an authenticated host
// session. The host application's own middleware sets this.
func WithSession(ctx context.Context, authenticated bool) context.Context {
	return context.WithValue(ctx, contextKey{}, authenticated)
}

// SessionFromContext reports whether the host marked the context as
// session-authenticated.
func SessionFromContext(ctx context.Context) bool {
	v, _ := ctx.Value(contextKey{}).(bool)
	return v
}
