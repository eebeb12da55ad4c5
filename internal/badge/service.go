package badge

import (
	"context"
	"fmt"
	"time"

	"bookmosh/internal/poller"
)

const DefaultPollInterval = 30 * time.Second

type Service struct {
	repo     Repository
	interval time.Duration
}

func NewService(repo Repository, interval time.Duration) *Service {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Service{repo: repo, interval: interval}
}

func (s *Service) queries(userID string) map[string]poller.Query {
	bind := func(f func(context.Context, string) (int, error)) poller.Query {
		return func(ctx context.Context) (int, error) { return f(ctx, userID) }
	}
	return map[string]poller.Query{
		QueryFriendRequests:  bind(s.repo.PendingFriendRequests),
		QueryRecommendations: bind(s.repo.UnreadRecommendations),
		QueryMessages:        bind(s.repo.UnreadMessages),
	}
}

// Counts queries every source once. Any failure fails the whole read.
func (s *Service) Counts(ctx context.Context, userID string) (Counts, error) {
	values := make(map[string]int, 3)
	for name, q := range s.queries(userID) {
		v, err := q(ctx)
		if err != nil {
			return Counts{}, fmt.Errorf("count %s: %w", name, err)
		}
		values[name] = v
	}
	return Reduce(values), nil
}

// Watch polls the user's counts until ctx is done, calling onUpdate whenever
// they change. A failing source keeps its last known value.
func (s *Service) Watch(ctx context.Context, userID string, onUpdate func(Counts)) error {
	p, err := poller.New(poller.Options[Counts]{
		Interval: s.interval,
		Queries:  s.queries(userID),
		Reduce:   Reduce,
		OnUpdate: onUpdate,
	})
	if err != nil {
		return err
	}
	return p.Run(ctx)
}
