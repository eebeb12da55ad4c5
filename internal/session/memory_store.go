package session

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu  sync.Mutex
	id  Identity
	set bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return Identity{}, ErrNoSession
	}
	return s.id, nil
}

func (s *MemoryStore) Set(ctx context.Context, id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.set = id, true
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id, s.set = Identity{}, false
	return nil
}
