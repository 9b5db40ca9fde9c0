package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/chirper-go/apperror"
	"github.com/user/chirper-go/config"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

type contextKey string

const claimsContextKey contextKey = "session_claims"

// SessionMiddleware verifies the session token on protected routes and puts
// the claims into the request context. The token is read from the session
// cookie, with an Authorization: Bearer fallback for non-browser clients.
func SessionMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				WriteError(w, r, apperror.NewAuthError("missing session token", nil))
				return
			}

			claims, err := ParseSessionToken(cfg.Secret, tokenString)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError("invalid session token", err))
				return
			}

			ctx := NewContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// NewContextWithClaims returns a child context carrying the session claims.
func NewContextWithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the session claims set by SessionMiddleware.
func ClaimsFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*SessionClaims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's id, or false when the
// request did not pass through SessionMiddleware.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}
