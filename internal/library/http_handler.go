package library

import (
	"errors"
	"net/http"
	"strconv"

	"bookmosh/internal/httpx"
	"bookmosh/internal/logger"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Add handles POST /v1/me/library
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.Add(r.Context(), httpx.UserIDFrom(r), req)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_STATUS", err.Error(), nil)
			return
		}
		logger.For(r.Context()).WithError(err).Error("add library item")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not save book", nil)
		return
	}
	httpx.JSONCreated(w, r, item)
}

// List handles GET /v1/me/library?status=&limit=&offset=
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.service.List(r.Context(), httpx.UserIDFrom(r), q.Get("status"), limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_STATUS", err.Error(), nil)
			return
		}
		logger.For(r.Context()).WithError(err).Error("list library")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load library", nil)
		return
	}

	httpx.JSONSuccess(w, r, items, map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Remove handles DELETE /v1/me/library/{key}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Missing book key", nil)
		return
	}
	if err := h.service.Remove(r.Context(), httpx.UserIDFrom(r), key); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not in library", nil)
			return
		}
		logger.For(r.Context()).WithError(err).Error("remove library item")
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not remove book", nil)
		return
	}
	httpx.JSONNoContent(w)
}
