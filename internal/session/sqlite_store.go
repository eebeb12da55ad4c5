package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS session (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	user_id      TEXT NOT NULL,
	name         TEXT NOT NULL DEFAULT '',
	signed_in_at TEXT NOT NULL
)`

// SQLiteStore keeps the identity in a single-row table so it survives
// restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens the session database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		schemaSQL,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init session db: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context) (Identity, error) {
	var (
		id Identity
		at string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, signed_in_at FROM session WHERE id = 1`).Scan(&id.UserID, &id.Name, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrNoSession
	}
	if err != nil {
		return Identity{}, fmt.Errorf("read session: %w", err)
	}
	if id.SignedInAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
		return Identity{}, fmt.Errorf("read session: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Set(ctx context.Context, id Identity) error {
	if id.SignedInAt.IsZero() {
		id.SignedInAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, user_id, name, signed_in_at) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET user_id = excluded.user_id, name = excluded.name, signed_in_at = excluded.signed_in_at`,
		id.UserID, id.Name, id.SignedInAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
