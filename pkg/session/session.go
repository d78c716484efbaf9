package session

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Session is one client's server-side state, addressed by an id derived from
// the cookie the client holds.
//
// The key/value data is shared between a Session and its clones and is safe
// for concurrent Get/Insert/Remove. Expiry setters are meant for the request
// that owns the session and are not synchronized.
type Session struct {
	id     string
	expiry time.Time
	data   *values
	cookie *cookieSlot
}

// values is the lock-guarded data shared by a session and its clones.
type values struct {
	mu      sync.RWMutex
	m       map[string]string
	changed bool
	// version increments on every effective mutation so a store can tell
	// whether data changed while it was persisting a snapshot.
	version uint64
}

// cookieSlot holds the client-facing cookie until it is taken once.
type cookieSlot struct {
	value atomic.Pointer[string]
}

func (c *cookieSlot) take() (string, bool) {
	if c == nil {
		return "", false
	}
	v := c.value.Swap(nil)
	if v == nil {
		return "", false
	}
	return *v, true
}

// New creates a session with a fresh random cookie, empty data and no expiry.
func New() *Session {
	return newSession(MinCookieLength)
}

// NewWithConfig creates a session using the configured cookie length and TTL.
func NewWithConfig(cfg Config) *Session {
	s := newSession(cfg.CookieLength)
	if cfg.TTL > 0 {
		s.SetExpiresIn(cfg.TTL)
	}
	return s
}

func newSession(cookieLength int) *Session {
	cookie, err := GenerateCookie(cookieLength)
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	id, err := IDFromCookie(cookie)
	if err != nil {
		panic(err)
	}

	slot := &cookieSlot{}
	slot.value.Store(&cookie)

	return &Session{
		id:     id,
		data:   &values{m: make(map[string]string)},
		cookie: slot,
	}
}

// restore rebuilds a persisted session. Restored sessions never carry a cookie.
func restore(id string, expiry time.Time, data map[string]string) *Session {
	if data == nil {
		data = make(map[string]string)
	}
	return &Session{
		id:     id,
		expiry: expiry,
		data:   &values{m: data},
	}
}

// ID returns the storage key of the session. It is never sent to the client.
func (s *Session) ID() string {
	return s.id
}

// Get decodes the value stored under key into dst.
// Missing keys and values that fail to decode both report false.
func (s *Session) Get(key string, dst any) bool {
	s.data.mu.RLock()
	raw, ok := s.data.m[key]
	s.data.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}

// Value is the typed form of Session.Get.
func Value[T any](s *Session, key string) (T, bool) {
	var v T
	if !s.Get(key, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

// Insert stores value under key as JSON. The data-changed flag is set only
// when the encoded value differs from what is already stored.
func (s *Session) Insert(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrSerialization, err)
	}
	encoded := string(b)

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if prev, ok := s.data.m[key]; ok && prev == encoded {
		return nil
	}
	s.data.m[key] = encoded
	s.data.touch()
	return nil
}

// Remove deletes key and reports whether it was present.
func (s *Session) Remove(key string) bool {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.m[key]; !ok {
		return false
	}
	delete(s.data.m, key)
	s.data.touch()
	return true
}

// Keys returns the data keys in sorted order.
func (s *Session) Keys() []string {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data.m))
}

// DataChanged reports whether the data has mutations not yet persisted.
func (s *Session) DataChanged() bool {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	return s.data.changed
}

// SetExpiry sets an absolute expiry time.
func (s *Session) SetExpiry(t time.Time) {
	s.expiry = t
}

// SetExpiresIn sets the expiry to d from now.
func (s *Session) SetExpiresIn(d time.Duration) {
	s.expiry = time.Now().Add(d)
}

// ClearExpiry makes the session never expire.
func (s *Session) ClearExpiry() {
	s.expiry = time.Time{}
}

// ExpiresAt returns the absolute expiry, if any.
func (s *Session) ExpiresAt() (time.Time, bool) {
	return s.expiry, !s.expiry.IsZero()
}

// IsExpired reports whether an expiry is set and lies in the past.
func (s *Session) IsExpired() bool {
	return !s.expiry.IsZero() && s.expiry.Before(time.Now())
}

// Validate returns the session unchanged when it is not expired, otherwise an
// *ExpiredError reporting how long ago it expired.
func (s *Session) Validate() (*Session, error) {
	if !s.IsExpired() {
		return s, nil
	}
	return nil, &ExpiredError{By: time.Since(s.expiry)}
}

// TakeCookie returns the client-facing cookie the first time it is called on
// the session that generated it. Later calls, clones and loaded sessions
// report false.
func (s *Session) TakeCookie() (string, bool) {
	return s.cookie.take()
}

// Clone returns a session sharing the same data. The clone never holds the cookie.
func (s *Session) Clone() *Session {
	return &Session{
		id:     s.id,
		expiry: s.expiry,
		data:   s.data,
	}
}

// snapshot copies the data for persistence together with the version it reflects.
func (s *Session) snapshot() (map[string]string, uint64) {
	s.data.mu.RLock()
	defer s.data.mu.RUnlock()
	return maps.Clone(s.data.m), s.data.version
}

// markSaved clears the data-changed flag unless data moved past version
// while the snapshot was being written.
func (s *Session) markSaved(version uint64) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if s.data.version == version {
		s.data.changed = false
	}
}

func (v *values) touch() {
	v.changed = true
	v.version++
}
