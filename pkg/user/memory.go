package user

import (
	"context"
	"sync"
)

// MemoryRepository keeps users in process memory. It backs tests and local
// runs without Postgres.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (r *MemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return ErrUsernameTaken
	}
	r.users[u.Username] = *u
	return nil
}

func (r *MemoryRepository) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
