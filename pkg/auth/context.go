package auth

import "context"

type contextKey struct{}

// WithUsername attaches the authenticated username to the request context.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, contextKey{}, username)
}

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(contextKey{}).(string)
	return username, ok && username != ""
}
