// Package realtime fans events out to in-process subscribers grouped by
// topic.
package realtime

import (
	"cmp"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"bookmosh/internal/metrics"

	"github.com/google/uuid"
)

type Event struct {
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// NewEvent encodes payload into an event of the given type.
func NewEvent(topic, typ string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{ID: uuid.NewString(), Topic: topic, Type: typ, Payload: b, At: time.Now().UTC()}, nil
}

type Handler func(Event)

type subscriber struct {
	id      string
	seq     uint64
	handler Handler
}

// Hub is safe for concurrent use. Handlers run on the publishing goroutine
// in subscription order and must not block.
type Hub struct {
	mu     sync.RWMutex
	seq    uint64
	topics map[string]map[string]*subscriber
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[string]*subscriber)}
}

// Subscription is released with Unsubscribe.
type Subscription struct {
	ID    string
	Topic string

	hub  *Hub
	once sync.Once
}

func (h *Hub) Subscribe(topic string, fn Handler) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	s := &subscriber{id: uuid.NewString(), seq: h.seq, handler: fn}
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[string]*subscriber)
		h.topics[topic] = subs
	}
	subs[s.id] = s
	metrics.RealtimeSubscribers.Inc()

	return &Subscription{ID: s.id, Topic: topic, hub: h}
}

// Unsubscribe stops delivery. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s.Topic, s.ID)
	})
}

func (h *Hub) remove(topic, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	if _, ok := subs[id]; !ok {
		return
	}
	delete(subs, id)
	metrics.RealtimeSubscribers.Dec()
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
}

// Publish delivers ev to every current subscriber of topic and returns how
// many received it.
func (h *Hub) Publish(topic string, ev Event) int {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.topics[topic]))
	for _, s := range h.topics[topic] {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	slices.SortFunc(subs, func(a, b *subscriber) int { return cmp.Compare(a.seq, b.seq) })
	ev.Topic = topic

	delivered := 0
	for _, s := range subs {
		if !h.active(topic, s.id) {
			continue
		}
		s.handler(ev)
		delivered++
	}
	return delivered
}

func (h *Hub) active(topic, id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.topics[topic][id]
	return ok
}

// Subscribers reports the number of live subscriptions on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
