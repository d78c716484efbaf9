package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process map.
// Records live until they are overwritten, deleted, swept by the optional
// cleanup loop, or the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryRecord
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

type memoryRecord struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory session store.
// A positive cleanupInterval starts a goroutine that drops expired records;
// zero keeps expired records until they are overwritten.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]memoryRecord),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Load retrieves the session addressed by cookie
func (m *MemoryStore) Load(ctx context.Context, cookie string) (*Session, error) {
	id, err := IDFromCookie(cookie)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	rec, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	sess, err := decodeRecord(rec.payload)
	if err != nil {
		return nil, err
	}

	return sess.Validate()
}

// Save stores a copy of the session data
func (m *MemoryStore) Save(ctx context.Context, s *Session) (string, error) {
	if s == nil || s.id == "" {
		return "", ErrInvalidSession
	}

	payload, version, err := encodeRecord(s)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.sessions[s.id] = memoryRecord{payload: payload, expiresAt: s.expiry}
	m.mu.Unlock()

	return completeSave(s, version), nil
}

// Delete removes a session by id
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// DeleteExpired removes all expired sessions and returns how many were dropped
func (m *MemoryStore) DeleteExpired(ctx context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var n int
	for id, rec := range m.sessions {
		if !rec.expiresAt.IsZero() && now.After(rec.expiresAt) {
			delete(m.sessions, id)
			n++
		}
	}

	return n
}

// Len returns the number of stored records, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

// cleanupLoop runs periodic cleanup of expired sessions
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
