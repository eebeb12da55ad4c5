package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"bookmosh/internal/auth"
	"bookmosh/internal/httpx"

	"github.com/golang-jwt/jwt/v5"
)

// TestUserID is the identity used by handler tests.
const TestUserID = "test-user-id-123"

// GenerateTestToken signs an HS256 access token for userID.
func GenerateTestToken(secret, userID string, ttl time.Duration) string {
	return signToken(secret, userID, time.Now().Add(ttl))
}

// GenerateExpiredToken signs a token that expired an hour ago.
func GenerateExpiredToken(secret, userID string) string {
	return signToken(secret, userID, time.Now().Add(-time.Hour))
}

func signToken(secret, userID string, exp time.Time) string {
	c := auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
	}}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing. A body that is already
// an io.Reader is sent as is; anything else is JSON encoded.
func NewRequest(method, path string, body any) *http.Request {
	switch b := body.(type) {
	case nil:
		return httptest.NewRequest(method, path, nil)
	case io.Reader:
		return httptest.NewRequest(method, path, b)
	default:
		bodyBytes, _ := json.Marshal(b)
		r := httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
		return r
	}
}

// NewRequestAs creates a request whose context already carries the
// authenticated userID, so handlers can be called directly.
func NewRequestAs(method, path string, body any, userID string) *http.Request {
	r := NewRequest(method, path, body)
	return r.WithContext(httpx.ContextWithUser(r.Context(), userID))
}

// NewRequestWithAuth creates a request with a Bearer token for testing the
// full middleware chain.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse decodes the recorded JSON envelope.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// ErrorCode returns error.code from a decoded envelope, or "".
func (r RecordResponse) ErrorCode() string {
	e, ok := r.Body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := e["code"].(string)
	return code
}
