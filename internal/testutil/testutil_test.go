package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookmosh/internal/auth"
	"bookmosh/internal/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestAs(t *testing.T) {
	r := NewRequestAs(http.MethodPost, "/v1/pits", map[string]string{"name": "Arrakis"}, TestUserID)

	assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	assert.Equal(t, TestUserID, httpx.UserIDFrom(r))
}

func TestGenerateTestToken(t *testing.T) {
	claims, err := auth.ParseToken("secret", GenerateTestToken("secret", TestUserID, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, TestUserID, claims.Subject)

	_, err = auth.ParseToken("secret", GenerateExpiredToken("secret", TestUserID))
	assert.Error(t, err)

	r := NewRequestWithAuth(http.MethodGet, "/", nil, "abc")
	assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
}

func TestRecordHTTPResponse(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "NOT_FOUND", "missing", nil)

	rec := RecordHTTPResponse(w)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", rec.ErrorCode())
	assert.Equal(t, false, rec.Body["success"])
}
