package session

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDecode indicates the cookie value is not valid base64
	ErrDecode = errors.New("session.decode_failed")

	// ErrSerialization indicates a value could not be encoded for storage
	ErrSerialization = errors.New("session.serialization_failed")

	// ErrSessionNotFound indicates no session was found for the derived id
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session exists but has passed its expiry
	ErrSessionExpired = errors.New("session.expired")

	// ErrBackendUnavailable indicates the storage backend failed to serve a request
	ErrBackendUnavailable = errors.New("session.backend_unavailable")

	// ErrMissingStore indicates the store was not wired into the request context
	ErrMissingStore = errors.New("session.missing_store")

	// ErrTokenGeneration indicates the random source failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrInvalidSession indicates a nil session or a session without an id
	ErrInvalidSession = errors.New("session.invalid")
)

// ExpiredError reports how long ago a session expired.
type ExpiredError struct {
	By time.Duration
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("session has been expired for %s", e.By.Round(time.Second))
}

// Is makes errors.Is(err, ErrSessionExpired) hold for any *ExpiredError.
func (e *ExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// IsUnauthenticated reports whether err is an expected outcome of reading a
// session that callers should treat as "no caller identity".
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrSessionExpired)
}
