package ratelimiter

import "time"

// Result contains the result of a rate limit check.
type Result struct {
	Limit     int       // bucket capacity
	Remaining int       // negative when the request was denied
	ResetAt   time.Time // next refill
}

// Allowed returns whether the request is allowed based on remaining tokens.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before the next request.
// Returns 0 if the request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}

// Config defines the token bucket configuration.
type Config struct {
	// Capacity is the burst limit.
	Capacity int `env:"LOGIN_RATE_CAPACITY" envDefault:"10"`
	// RefillRate tokens are added every RefillInterval.
	RefillRate     int           `env:"LOGIN_RATE_REFILL" envDefault:"1"`
	RefillInterval time.Duration `env:"LOGIN_RATE_INTERVAL" envDefault:"30s"`
	// RedisPrefix is only used by RedisStore.
	RedisPrefix string `env:"LOGIN_RATE_REDIS_PREFIX" envDefault:"rl:"`
}
