package httpx

import (
	"context"
	"net/http"

	"bookmosh/internal/logger"
)

// UserIDFrom retrieves the caller's user ID from the request context.
func UserIDFrom(r *http.Request) string {
	return logger.UserIDFrom(r.Context())
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	return logger.RequestIDFrom(r.Context())
}

// ContextWithUser returns a new context carrying the user ID.
func ContextWithUser(ctx context.Context, userID string) context.Context {
	return logger.ContextWithUserID(ctx, userID)
}
