package ratelimiter

import (
	"context"
	"time"
)

// Store keeps token bucket state per key.
type Store interface {
	// ConsumeTokens refills the bucket, then takes tokens if enough are
	// left. A denied request leaves the bucket untouched and reports a
	// negative remaining count.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the state for key.
	Reset(ctx context.Context, key string) error
}
