package badge

import "context"

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=badge

type Repository interface {
	PendingFriendRequests(ctx context.Context, userID string) (int, error)
	UnreadRecommendations(ctx context.Context, userID string) (int, error)
	UnreadMessages(ctx context.Context, userID string) (int, error)
}
