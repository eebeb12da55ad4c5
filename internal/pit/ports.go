package pit

import (
	"context"
	"time"

	"bookmosh/internal/realtime"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=pit

type Repository interface {
	// Create stores the pit and enrols its creator.
	Create(ctx context.Context, p *Pit) error
	AddMember(ctx context.Context, pitID, userID string) error
	IsMember(ctx context.Context, pitID, userID string) (bool, error)
	InsertMessage(ctx context.Context, m *Message) error
	// ListMessages returns messages older than before, newest first.
	ListMessages(ctx context.Context, pitID string, before time.Time, limit int) ([]Message, error)
	MarkRead(ctx context.Context, pitID, userID string, at time.Time) error
}

// Broker is the realtime fan-out used for new messages.
type Broker interface {
	Publish(topic string, ev realtime.Event) int
	Subscribe(topic string, fn realtime.Handler) *realtime.Subscription
}
