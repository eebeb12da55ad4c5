package pit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

// notFound reports errors meaning the pit id names no pit: 22P02 for an id
// that is not a uuid, 23503 for a foreign key to a missing pit.
func notFound(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "22P02" || pgErr.Code == "23503"
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Create(ctx context.Context, p *Pit) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		const insertSQL = `
			INSERT INTO pits (book_key, name, created_by, created_at)
			VALUES ($1, $2, $3, NOW())
			RETURNING id, created_at
		`
		if err := tx.QueryRow(timeoutCtx, insertSQL, p.BookKey, p.Name, p.CreatedBy).Scan(&p.ID, &p.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(timeoutCtx,
			`INSERT INTO pit_members (pit_id, user_id, joined_at) VALUES ($1, $2, NOW())`, p.ID, p.CreatedBy)
		return err
	})
}

func (r *PostgresRepo) AddMember(ctx context.Context, pitID, userID string) error {
	const joinSQL = `
		INSERT INTO pit_members (pit_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (pit_id, user_id) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, joinSQL, pitID, userID); err != nil {
		if notFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("join pit: %w", err)
	}
	return nil
}

func (r *PostgresRepo) IsMember(ctx context.Context, pitID, userID string) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var ok bool
	err := r.db.QueryRow(timeoutCtx,
		`SELECT EXISTS (SELECT 1 FROM pit_members WHERE pit_id = $1 AND user_id = $2)`, pitID, userID).Scan(&ok)
	if notFound(err) {
		return false, ErrNotFound
	}
	return ok, err
}

func (r *PostgresRepo) InsertMessage(ctx context.Context, m *Message) error {
	const insertSQL = `
		INSERT INTO pit_messages (pit_id, user_id, body, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, insertSQL, m.PitID, m.UserID, m.Body).Scan(&m.ID, &m.CreatedAt)
	if notFound(err) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) ListMessages(ctx context.Context, pitID string, before time.Time, limit int) ([]Message, error) {
	const listSQL = `
		SELECT id, pit_id, user_id, body, created_at
		FROM pit_messages
		WHERE pit_id = $1 AND created_at < $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, listSQL, pitID, before, limit)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("list pit messages: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Message])
}

func (r *PostgresRepo) MarkRead(ctx context.Context, pitID, userID string, at time.Time) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx,
		`UPDATE pit_members SET last_read_at = $3 WHERE pit_id = $1 AND user_id = $2`, pitID, userID, at)
	if err != nil {
		if notFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("mark pit read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotMember
	}
	return nil
}
