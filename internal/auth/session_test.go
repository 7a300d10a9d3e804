package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "pigsoil-session-secret-for-tests"

func signToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

type staticTokenSource string

func (s staticTokenSource) Token() (string, error) { return string(s), nil }

func TestStatic(t *testing.T) {
	provider := Static("farmer-1")
	assert.Equal(t, "farmer-1", provider())
}

func TestSessionProviderValidToken(t *testing.T) {
	raw := signToken(t, testSecret, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "farmer-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	provider := SessionProvider(staticTokenSource(raw), testSecret, nil)
	assert.Equal(t, "farmer-1", provider())
}

func TestSessionProviderWrongSecret(t *testing.T) {
	raw := signToken(t, "some-other-secret", SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "farmer-1"},
	})

	provider := SessionProvider(staticTokenSource(raw), testSecret, nil)
	assert.Equal(t, "", provider())
}

func TestSessionProviderExpiredToken(t *testing.T) {
	raw := signToken(t, testSecret, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "farmer-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	provider := SessionProvider(staticTokenSource(raw), testSecret, nil)
	assert.Equal(t, "", provider())
}

func TestSessionProviderEmptySubject(t *testing.T) {
	raw := signToken(t, testSecret, SessionClaims{})

	provider := SessionProvider(staticTokenSource(raw), testSecret, nil)
	assert.Equal(t, "", provider())
}

func TestFileTokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("  token-value\n"), 0o600))

	src := FileTokenSource{Path: path}
	token, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "token-value", token)
}

func TestFileTokenSourceMissingFileMeansSignedOut(t *testing.T) {
	src := FileTokenSource{Path: filepath.Join(t.TempDir(), "absent")}

	_, err := src.Token()
	assert.Error(t, err)

	provider := SessionProvider(src, testSecret, nil)
	assert.Equal(t, "", provider())
}

func TestSessionProviderReflectsTokenChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	src := FileTokenSource{Path: path}
	provider := SessionProvider(src, testSecret, nil)

	assert.Equal(t, "", provider())

	raw := signToken(t, testSecret, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "buyer-2"},
	})
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	assert.Equal(t, "buyer-2", provider())

	require.NoError(t, os.Remove(path))
	assert.Equal(t, "", provider())
}
