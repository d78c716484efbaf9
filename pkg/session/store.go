package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Store defines the interface for session persistence.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load derives the session id from cookie, fetches the record and validates
	// its expiry. It returns ErrDecode, ErrSessionNotFound, an *ExpiredError or
	// ErrBackendUnavailable.
	Load(ctx context.Context, cookie string) (*Session, error)

	// Save persists the session under its id, overwriting any earlier record,
	// and clears the data-changed flag. It returns the client cookie on the
	// first save of a freshly created session and "" on every later save.
	Save(ctx context.Context, s *Session) (string, error)

	// Delete removes the record for id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// NewStore builds the backend selected by cfg.Backend. The Redis client is
// required for the redis backend and ignored otherwise.
func NewStore(cfg Config, client redis.UniversalClient, log *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case BackendRedis:
		if client == nil {
			return nil, errors.New("session: redis backend requires a redis client")
		}
		return NewRedisStore(client,
			WithRedisPrefix(cfg.RedisPrefix),
			WithRedisLogger(log),
		), nil
	case BackendMemory, "":
		return NewMemoryStore(cfg.CleanupInterval), nil
	default:
		return nil, fmt.Errorf("session: unknown backend %q", cfg.Backend)
	}
}

// Destroy removes the session addressed by cookie from store.
func Destroy(ctx context.Context, store Store, cookie string) error {
	id, err := IDFromCookie(cookie)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// completeSave runs after a backend has written the snapshot at version.
func completeSave(s *Session, version uint64) string {
	s.markSaved(version)
	cookie, _ := s.TakeCookie()
	return cookie
}
