package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/bluebird/pkg/logger"
)

// DefaultRedisPrefix is prepended to every session id used as a Redis key.
const DefaultRedisPrefix = "session:"

// RedisStore implements Store on top of a Redis client.
// A session with an expiry is written with a TTL equal to its remaining
// lifetime so Redis evicts it; expiry is still validated after every Load.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisLogger sets the logger used for corrupt-record diagnostics.
func WithRedisLogger(l *slog.Logger) RedisOption {
	return func(s *RedisStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultRedisPrefix,
		logger: logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Load retrieves the session addressed by cookie.
// A missing key and a key Redis already evicted both yield ErrSessionNotFound.
func (s *RedisStore) Load(ctx context.Context, cookie string) (*Session, error) {
	id, err := IDFromCookie(cookie)
	if err != nil {
		return nil, err
	}

	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	sess, err := decodeRecord(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "unreadable session record",
			logger.SessionID(id),
			logger.Error(err),
		)
		return nil, errors.Join(ErrSessionNotFound, err)
	}

	return sess.Validate()
}

// Save writes the session record, with a TTL when the session has an expiry.
func (s *RedisStore) Save(ctx context.Context, sess *Session) (string, error) {
	if sess == nil || sess.id == "" {
		return "", ErrInvalidSession
	}

	payload, version, err := encodeRecord(sess)
	if err != nil {
		return "", err
	}

	var ttl time.Duration
	if exp, ok := sess.ExpiresAt(); ok {
		ttl = time.Until(exp)
		if ttl <= 0 {
			// Already expired: nothing worth keeping, and go-redis treats
			// negative expirations as KEEPTTL.
			if err := s.client.Del(ctx, s.key(sess.id)).Err(); err != nil {
				return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
			}
			return completeSave(sess, version), nil
		}
	}

	if err := s.client.Set(ctx, s.key(sess.id), payload, ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return completeSave(sess, version), nil
}

// Delete removes a session by id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}
