package library

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

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Upsert(ctx context.Context, item *Item) error {
	const upsertSQL = `
		INSERT INTO library_items (user_id, book_key, title, author, cover_url, isbn, publication_year, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (user_id, book_key)
		DO UPDATE SET status = EXCLUDED.status,
		              title = EXCLUDED.title,
		              author = EXCLUDED.author,
		              cover_url = COALESCE(EXCLUDED.cover_url, library_items.cover_url),
		              publication_year = COALESCE(EXCLUDED.publication_year, library_items.publication_year),
		              updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, upsertSQL,
		item.UserID, item.BookKey, item.Title, item.Author, item.Cover, item.ISBN, item.PublicationYear, item.Status,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert library item: %w", err)
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, userID, status string, limit, offset int) ([]Item, int, error) {
	const countSQL = `
		SELECT COUNT(*)
		FROM library_items
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
	`
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, userID, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count library items: %w", err)
	}

	const dataSQL = `
		SELECT id, user_id, book_key, title, author, cover_url, isbn, publication_year, status, created_at, updated_at
		FROM library_items
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC, id
		LIMIT $3 OFFSET $4
	`
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, userID, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list library items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.BookKey, &it.Title, &it.Author, &it.Cover, &it.ISBN,
			&it.PublicationYear, &it.Status, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, bookKey string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM library_items WHERE user_id = $1 AND book_key = $2`, userID, bookKey)
	if err != nil {
		return fmt.Errorf("delete library item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Keys(ctx context.Context, userID string) ([]string, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, `SELECT book_key FROM library_items WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list library keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
