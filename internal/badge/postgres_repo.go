package badge

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) count(ctx context.Context, query, userID string) (int, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var n int
	if err := r.db.QueryRow(timeoutCtx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("badge count: %w", err)
	}
	return n, nil
}

func (r *PostgresRepo) PendingFriendRequests(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM friend_requests
		WHERE addressee_id = $1 AND status = 'PENDING'
	`, userID)
}

func (r *PostgresRepo) UnreadRecommendations(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*) FROM recommendations
		WHERE recipient_id = $1 AND read_at IS NULL
	`, userID)
}

func (r *PostgresRepo) UnreadMessages(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `
		SELECT COUNT(*)
		FROM pit_messages m
		JOIN pit_members pm ON pm.pit_id = m.pit_id AND pm.user_id = $1
		WHERE m.user_id <> $1
		  AND m.created_at > COALESCE(pm.last_read_at, pm.joined_at)
	`, userID)
}
