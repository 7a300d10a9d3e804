// Package auth supplies the "current user" capability for the notification
// service. The service never talks to the auth provider directly; it is handed
// a UserProvider and resolves the user id fresh on every operation, so a
// sign-out or account switch between calls is reflected immediately.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserProvider returns the id of the currently authenticated user, or the
// empty string when nobody is signed in. Implementations must be cheap; the
// result is intentionally never memoized by callers.
type UserProvider func() string

// Static returns a provider that always yields the given id. Useful for tests
// and single-user demos.
func Static(id string) UserProvider {
	return func() string { return id }
}

// TokenSource supplies the raw session token for the active PigSoil+ session.
type TokenSource interface {
	Token() (string, error)
}

// FileTokenSource reads the session token file the PigSoil+ client writes on
// sign-in and removes on sign-out.
type FileTokenSource struct {
	Path string
}

// Token returns the trimmed file contents, or an error if the file is absent.
func (f FileTokenSource) Token() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read session token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SessionClaims are the claims PigSoil+ embeds in its session JWT. The user id
// travels in the registered subject claim.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionProvider builds a UserProvider that validates the session token with
// the shared HS256 secret on every call. Any failure (missing token file,
// bad signature, expired session, empty subject) yields "" (signed out)
// rather than an error, matching the neutral-failure contract of the store.
func SessionProvider(src TokenSource, secret string, log *zap.SugaredLogger) UserProvider {
	return func() string {
		raw, err := src.Token()
		if err != nil || raw == "" {
			return ""
		}

		token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			if log != nil {
				log.Debugw("Session token rejected", "error", err)
			}
			return ""
		}

		claims, ok := token.Claims.(*SessionClaims)
		if !ok {
			return ""
		}
		return claims.Subject
	}
}
