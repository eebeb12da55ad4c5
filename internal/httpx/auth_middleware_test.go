package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmosh/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}}).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	var seen string
	protected := AuthMiddleware(testSecret)(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFrom(r)
		w.WriteHeader(http.StatusOK)
	})))
	open := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	request := func(authz string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		return req
	}

	t.Run("valid token", func(t *testing.T) {
		seen = ""
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, request("Bearer "+signToken(t, testSecret, "user-42", time.Now().Add(time.Hour))))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-42", seen)
	})

	t.Run("expired token", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, request("Bearer "+signToken(t, testSecret, "user-42", time.Now().Add(-time.Minute))))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("forged token", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, request("Bearer "+signToken(t, "attacker-secret", "victim", time.Now().Add(time.Hour))))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("user header is ignored", func(t *testing.T) {
		req := request("")
		req.Header.Set("X-User-Id", "victim")
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("anonymous passes open routes", func(t *testing.T) {
		seen = "unset"
		w := httptest.NewRecorder()
		open.ServeHTTP(w, request(""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, seen)
	})

	t.Run("bad token fails open routes too", func(t *testing.T) {
		w := httptest.NewRecorder()
		open.ServeHTTP(w, request("Bearer not-a-jwt"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non bearer scheme", func(t *testing.T) {
		w := httptest.NewRecorder()
		open.ServeHTTP(w, request("Basic dXNlcjpwYXNz"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
