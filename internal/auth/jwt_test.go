package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsFor(sub string, exp time.Time) Claims {
	return Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
	}}
}

func TestParseToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("user-1", time.Now().Add(time.Hour)))

		claims, err := ParseToken(testSecret, tok)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
	})

	t.Run("expired", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("user-1", time.Now().Add(-time.Minute)))

		_, err := ParseToken(testSecret, tok)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("forged signature", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS256, []byte("other-secret"), claimsFor("victim", time.Now().Add(time.Hour)))

		_, err := ParseToken(testSecret, tok)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("unsigned token", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor("victim", time.Now().Add(time.Hour)))

		_, err := ParseToken(testSecret, tok)
		assert.Error(t, err)
	})

	t.Run("no expiry", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})

		_, err := ParseToken(testSecret, tok)
		assert.Error(t, err)
	})

	t.Run("no subject", func(t *testing.T) {
		tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("", time.Now().Add(time.Hour)))

		_, err := ParseToken(testSecret, tok)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", tok)

	tok, ok = BearerToken("bearer xyz")
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer ", "Basic dXNlcjpwYXNz", "abc"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}
