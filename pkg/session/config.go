package session

import (
	"fmt"
	"time"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds session configuration
type Config struct {
	// CookieName is the name of the session cookie
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"bluebird_session"`

	// CookieLength is the number of random bytes behind each cookie (minimum 64)
	CookieLength int `env:"SESSION_COOKIE_LENGTH" envDefault:"64"`

	// UserIDKey is the session data key holding the authenticated user id
	UserIDKey string `env:"SESSION_USER_ID_KEY" envDefault:"user_id"`

	// TTL is applied to new sessions (0 means sessions never expire)
	TTL time.Duration `env:"SESSION_TTL" envDefault:"0"`

	// Backend selects the store: "memory" or "redis"
	Backend string `env:"SESSION_BACKEND" envDefault:"memory"`

	RedisPrefix string `env:"SESSION_REDIS_PREFIX" envDefault:"session:"`

	// CleanupInterval for expired in-memory sessions (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"0"`

	// SecureCookies enables the Secure flag on session cookies (recommended for production)
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:      "bluebird_session",
		CookieLength:    MinCookieLength,
		UserIDKey:       "user_id",
		TTL:             0,
		Backend:         BackendMemory,
		RedisPrefix:     DefaultRedisPrefix,
		CleanupInterval: 0,
		SecureCookies:   false,
	}
}

// Validate checks the configuration for values the package cannot work with.
func (c Config) Validate() error {
	if c.CookieName == "" {
		return fmt.Errorf("session: cookie name is required")
	}
	if c.CookieLength < MinCookieLength {
		return fmt.Errorf("session: cookie length %d is below the minimum of %d", c.CookieLength, MinCookieLength)
	}
	if c.UserIDKey == "" {
		return fmt.Errorf("session: user id key is required")
	}
	if c.TTL < 0 {
		return fmt.Errorf("session: negative ttl %s", c.TTL)
	}
	switch c.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("session: unknown backend %q", c.Backend)
	}
	return nil
}
