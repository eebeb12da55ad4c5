package badge

import (
	"context"
	"errors"
	"net/http"

	"bookmosh/internal/httpx"
	"bookmosh/internal/logger"
)

const EventBadgeUpdated = "badge.updated"

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Get handles GET /v1/me/badges
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Counts(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		logger.For(r.Context()).WithError(err).Error("badge counts")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load badges", nil)
		return
	}
	httpx.JSONSuccess(w, r, c, nil)
}

// Stream handles GET /v1/me/badges/stream, pushing counts when they change.
func (h *HTTPHandler) Stream(w http.ResponseWriter, r *http.Request) {
	stream, ok := httpx.NewEventStream(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	updates := make(chan Counts, 1)
	done := make(chan error, 1)
	go func() {
		done <- h.service.Watch(ctx, httpx.UserIDFrom(r), func(c Counts) {
			// keep only the newest snapshot
			select {
			case <-updates:
			default:
			}
			updates <- c
		})
	}()

	for {
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.For(r.Context()).WithError(err).Warn("badge watch stopped")
			}
			return
		case c := <-updates:
			if err := stream.Send(EventBadgeUpdated, c); err != nil {
				return
			}
		}
	}
}
