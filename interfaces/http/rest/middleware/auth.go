package middleware

import (
	"net/http"
	"strings"

	"mugenreco-backend/pkg/auth"
	"mugenreco-backend/pkg/common"
)

// SessionCookie is the cookie the frontend stores the session token in. Its
// value carries the same "Bearer <token>" shape as the Authorization header.
const SessionCookie = "access_token"

// Authenticate requires a valid session token and puts the username on the
// request context.
func Authenticate(tokens *auth.TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing credentials")
				return
			}

			username, err := tokens.Verify(token)
			if err != nil {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUsername(r.Context(), username)))
		})
	}
}

// OptionalAuthenticate puts the username on the context when a valid token is
// present and lets the request through anonymously otherwise.
func OptionalAuthenticate(tokens *auth.TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := extractToken(r); token != "" {
				if username, err := tokens.Verify(token); err == nil {
					r = r.WithContext(auth.WithUsername(r.Context(), username))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken pulls the bearer token from the Authorization header or the
// session cookie.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		if cookie, err := r.Cookie(SessionCookie); err == nil {
			header = cookie.Value
		}
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
