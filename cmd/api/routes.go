package main

import (
	"context"
	"net/http"
	"time"

	"bookmosh/internal/badge"
	"bookmosh/internal/discovery"
	"bookmosh/internal/httpx"
	"bookmosh/internal/library"
	"bookmosh/internal/pit"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routes struct {
	discover *discovery.HTTPHandler
	library  *library.HTTPHandler
	pits     *pit.HTTPHandler
	badges   *badge.HTTPHandler
	ready    func(ctx context.Context) error
}

func newRouter(rt routes) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if rt.ready != nil {
			if err := rt.ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	router.HandleFunc("GET /v1/discover", rt.discover.Discover)

	user := func(h http.HandlerFunc) http.Handler { return httpx.RequireUser(h) }

	router.Handle("GET /v1/me/library", user(rt.library.List))
	router.Handle("POST /v1/me/library", user(rt.library.Add))
	router.Handle("DELETE /v1/me/library/{key}", user(rt.library.Remove))

	router.Handle("POST /v1/pits", user(rt.pits.Create))
	router.Handle("POST /v1/pits/{id}/join", user(rt.pits.Join))
	router.Handle("GET /v1/pits/{id}/messages", user(rt.pits.Messages))
	router.Handle("POST /v1/pits/{id}/messages", user(rt.pits.Post))
	router.Handle("POST /v1/pits/{id}/read", user(rt.pits.MarkRead))
	router.Handle("GET /v1/pits/{id}/stream", user(rt.pits.Stream))

	router.Handle("GET /v1/me/badges", user(rt.badges.Get))
	router.Handle("GET /v1/me/badges/stream", user(rt.badges.Stream))

	return router
}

// withMiddleware wraps the router; the first middleware listed runs first.
func withMiddleware(h http.Handler, limiter *httpx.RateLimitMiddleware, corsOrigins []string, jwtSecret string) http.Handler {
	return httpx.Chain(h,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware,
		httpx.AccessLogMiddleware,
		httpx.SecurityHeadersMiddleware(false),
		httpx.CORSMiddleware(corsOrigins),
		httpx.RequestSizeLimitMiddleware(1<<20),
		limiter.Middleware,
		httpx.AuthMiddleware(jwtSecret),
	)
}
