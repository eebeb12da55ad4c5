package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EventStream writes server-sent events to a flushing response.
type EventStream struct {
	w http.ResponseWriter
	f http.Flusher
}

// NewEventStream prepares w for an event stream. It writes a 500 and returns
// false when the writer cannot flush.
func NewEventStream(w http.ResponseWriter, r *http.Request) (*EventStream, bool) {
	f, ok := w.(http.Flusher)
	if !ok {
		JSONError(w, r, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "Streaming unsupported", nil)
		return nil, false
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	f.Flush()
	return &EventStream{w: w, f: f}, true
}

// Send writes one event whose data is the JSON encoding of payload.
func (s *EventStream) Send(event string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

// Ping writes a comment line to keep intermediaries from closing the stream.
func (s *EventStream) Ping() error {
	if _, err := fmt.Fprint(s.w, ": ping\n\n"); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}
