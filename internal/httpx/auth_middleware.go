package httpx

import (
	"net/http"

	"bookmosh/internal/auth"
	"bookmosh/internal/logger"
)

// AuthMiddleware verifies a Bearer access token and puts its subject into the
// request context. Requests without an Authorization header pass through
// anonymously; a header that does not carry a valid token is rejected.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := auth.BearerToken(header)
			if !ok {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				logger.For(r.Context()).WithError(err).Debug("rejected access token")
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), claims.Subject)))
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserIDFrom(r) == "" {
			JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
