package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimitMiddleware(ctx, 0.001, 2)
	handler := rl.Middleware(okHandler())

	call := func(remote, forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234", ""))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5678", ""))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:9999", ""))

	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1234", ""))
	assert.Equal(t, http.StatusOK, call("10.0.0.3:1", "203.0.113.7, 10.0.0.3"))
	assert.Equal(t, http.StatusOK, call("10.0.0.4:1", "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.5:1", "203.0.113.7"))
}
