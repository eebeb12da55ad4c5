package discovery

import (
	"context"
	"net/http"

	"bookmosh/internal/httpx"
	"bookmosh/internal/logger"
)

// LibraryKeys reports which candidate keys a user already has.
type LibraryKeys interface {
	Keys(ctx context.Context, userID string) (map[string]bool, error)
}

type HTTPHandler struct {
	searcher Searcher
	library  LibraryKeys
}

// NewHTTPHandler builds the discover endpoint. library may be nil.
func NewHTTPHandler(searcher Searcher, library LibraryKeys) *HTTPHandler {
	return &HTTPHandler{searcher: searcher, library: library}
}

type candidateResponse struct {
	Candidate
	Key       string `json:"key"`
	InLibrary bool   `json:"in_library"`
}

type discoverResponse struct {
	Status  Status              `json:"status"`
	Query   string              `json:"query"`
	Results []candidateResponse `json:"results"`
}

// Discover handles GET /v1/discover?q=
func (h *HTTPHandler) Discover(w http.ResponseWriter, r *http.Request) {
	res := h.searcher.Search(r.Context(), r.URL.Query().Get("q"))

	if res.Status == StatusUnavailable {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "SEARCH_UNAVAILABLE",
			"Search is temporarily unavailable, please retry", nil)
		return
	}

	owned := map[string]bool{}
	if userID := httpx.UserIDFrom(r); userID != "" && h.library != nil && len(res.Candidates) > 0 {
		keys, err := h.library.Keys(r.Context(), userID)
		if err != nil {
			logger.For(r.Context()).WithError(err).Warn("library keys unavailable, results not annotated")
		} else {
			owned = keys
		}
	}

	out := discoverResponse{
		Status:  res.Status,
		Query:   res.Query,
		Results: make([]candidateResponse, 0, len(res.Candidates)),
	}
	for _, c := range res.Candidates {
		key := c.Key()
		out.Results = append(out.Results, candidateResponse{Candidate: c, Key: key, InLibrary: owned[key]})
	}

	httpx.JSONSuccess(w, r, out, map[string]any{"total": len(out.Results)})
}
