package pit

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookmosh/internal/httpx"
	"bookmosh/internal/logger"
)

// KeepAlive is how often an idle stream receives a comment line.
var KeepAlive = 25 * time.Second

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Pit not found", nil)
	case errors.Is(err, ErrNotMember):
		httpx.JSONError(w, r, http.StatusForbidden, "NOT_MEMBER", "Join the pit first", nil)
	case errors.Is(err, ErrInvalidMessage):
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_MESSAGE", err.Error(), nil)
	default:
		logger.For(r.Context()).WithError(err).Error(op)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}

// Create handles POST /v1/pits
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	p, err := h.service.Create(r.Context(), httpx.UserIDFrom(r), req)
	if err != nil {
		h.writeError(w, r, err, "create pit")
		return
	}
	httpx.JSONCreated(w, r, p)
}

// Join handles POST /v1/pits/{id}/join
func (h *HTTPHandler) Join(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Join(r.Context(), r.PathValue("id"), httpx.UserIDFrom(r)); err != nil {
		h.writeError(w, r, err, "join pit")
		return
	}
	httpx.JSONNoContent(w)
}

// Post handles POST /v1/pits/{id}/messages
func (h *HTTPHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req PostRequest
	if !httpx.DecodeJSON(w, r, &req) {
		return
	}
	m, err := h.service.Post(r.Context(), r.PathValue("id"), httpx.UserIDFrom(r), req.Body)
	if err != nil {
		h.writeError(w, r, err, "post message")
		return
	}
	httpx.JSONCreated(w, r, m)
}

// Messages handles GET /v1/pits/{id}/messages?before=&limit=
func (h *HTTPHandler) Messages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var before time.Time
	if v := q.Get("before"); v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "before must be an RFC 3339 timestamp", nil)
			return
		}
		before = t
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	msgs, err := h.service.Messages(r.Context(), r.PathValue("id"), httpx.UserIDFrom(r), before, limit)
	if err != nil {
		h.writeError(w, r, err, "list messages")
		return
	}
	meta := map[string]any{"count": len(msgs)}
	if len(msgs) > 0 {
		meta["next_before"] = msgs[len(msgs)-1].CreatedAt.Format(time.RFC3339Nano)
	}
	httpx.JSONSuccess(w, r, msgs, meta)
}

// MarkRead handles POST /v1/pits/{id}/read
func (h *HTTPHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkRead(r.Context(), r.PathValue("id"), httpx.UserIDFrom(r)); err != nil {
		h.writeError(w, r, err, "mark read")
		return
	}
	httpx.JSONNoContent(w)
}

// Stream handles GET /v1/pits/{id}/stream as server-sent events. The
// subscription is released when the client goes away.
func (h *HTTPHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	msgs := make(chan Message, 16)
	sub, err := h.service.Subscribe(ctx, r.PathValue("id"), httpx.UserIDFrom(r), func(m Message) {
		select {
		case msgs <- m:
		default:
			logger.For(ctx).WithField("pit_id", m.PitID).Warn("slow stream consumer, message dropped")
		}
	})
	if err != nil {
		h.writeError(w, r, err, "subscribe pit")
		return
	}
	defer sub.Unsubscribe()

	stream, ok := httpx.NewEventStream(w, r)
	if !ok {
		return
	}

	ticker := time.NewTicker(KeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-msgs:
			if err := stream.Send(EventMessageCreated, m); err != nil {
				return
			}
		case <-ticker.C:
			if err := stream.Ping(); err != nil {
				return
			}
		}
	}
}
