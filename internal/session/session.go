// Package session remembers which user the CLI is signed in as.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNoSession = errors.New("no active session")

type Identity struct {
	UserID     string    `json:"user_id"`
	Name       string    `json:"name,omitempty"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// Store persists at most one identity.
type Store interface {
	Get(ctx context.Context) (Identity, error)
	Set(ctx context.Context, id Identity) error
	Clear(ctx context.Context) error
}
