package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookmosh/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSuccess(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(logger.ContextWithRequestID(r.Context(), "req-9"))
	w := httptest.NewRecorder()

	JSONSuccess(w, r, map[string]string{"key": "value"}, map[string]any{"total": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
		Meta    map[string]any    `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "value", body.Data["key"])
	assert.Equal(t, float64(10), body.Meta["total"])
	assert.Equal(t, "req-9", body.Meta["request_id"])
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "BAD_REQUEST", "nope",
		[]ErrorDetail{{Field: "q", Message: "q is required"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)
	assert.Len(t, body.Error.Details, 1)
	assert.Nil(t, body.Meta)
}

type decodeTarget struct {
	ISBN  string `json:"isbn" validate:"omitempty,isbn"`
	Title string `json:"title" validate:"notblank,max=10"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{name: "valid", body: `{"title":"Dune","isbn":"978-0441013593"}`, ok: true},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"title":"Dune","extra":1}`, status: http.StatusBadRequest},
		{name: "blank title", body: `{"title":"   "}`, status: http.StatusBadRequest},
		{name: "isbn with bad check digit", body: `{"title":"Dune","isbn":"9780441013590"}`, ok: true},
		{name: "isbn10 lowercase x", body: `{"title":"Dune","isbn":"080442957x"}`, ok: true},
		{name: "bad isbn", body: `{"title":"Dune","isbn":"12"}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst decodeTarget

			ok := DecodeJSON(w, r, &dst)

			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, tt.status, w.Code)
			}
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	details := ValidateStruct(&decodeTarget{Title: "far too long a title", ISBN: "abc"})
	require.Len(t, details, 2)

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	assert.Contains(t, byField["isbn"], "valid ISBN")
	assert.Contains(t, byField["title"], "at most 10")
}
