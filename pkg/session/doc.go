// Package session provides server-side sessions addressed by an opaque
// cookie, pluggable storage back-ends and resolution of the caller identity
// from an incoming request.
//
// The cookie handed to the client is 64+ random bytes encoded as base64. It
// is never stored: the storage key (session id) is the base64 BLAKE2b-256
// hash of the decoded cookie, so a leaked store does not leak usable cookies.
//
// # Architecture
//
//	┌────────┐  cookie   ┌───────────────┐  id   ┌────────┐
//	│ Client │ ────────► │ IDFromCookie  │ ────► │ Store  │ (memory, redis)
//	└────────┘           └───────────────┘       └────────┘
//	     ▲                                            │ record
//	     │ Set-Cookie (first Save only)               ▼
//	┌─────────────────────────────────────────────────────┐
//	│ Session: id, expiry, shared data, one-shot cookie   │
//	└─────────────────────────────────────────────────────┘
//
// A Session created with New carries its cookie until the first successful
// Store.Save, which returns it exactly once. Clones and sessions rebuilt by
// Store.Load never carry a cookie.
//
// Session data is a map of JSON-encoded values guarded by a RWMutex and
// shared between a session and its clones. Insert only marks the session as
// changed when the encoded value differs from the stored one.
//
// # Expiry
//
// Expiry is always an absolute timestamp checked by Session.Validate after
// every Load, on every backend. RedisStore also sets a key TTL matching the
// remaining lifetime so Redis evicts stale records on its own; an evicted
// record loads as ErrSessionNotFound, a stale record still present loads as
// *ExpiredError.
//
// # Usage
//
//	store := session.NewMemoryStore(0)
//
//	// login
//	sess := session.New()
//	_ = sess.Insert("user_id", userID)
//	cookie, err := store.Save(ctx, sess) // cookie != "" on first save only
//
//	// later requests
//	extractor := session.NewExtractor(store, session.DefaultConfig())
//	r.Use(extractor.Middleware)
//	id, err := session.IdentityFromContext(r.Context())
//
// # Concurrency
//
// Stores are safe for concurrent use. Two concurrent Saves of the same
// session race at the storage layer and the last write wins; there is no
// version check.
//
// # Error Handling
//
//   - ErrDecode            – cookie is not valid base64
//   - ErrSessionNotFound   – no record for the derived id
//   - ErrSessionExpired    – matched by *ExpiredError, which carries how long ago
//   - ErrSerialization     – a value could not be encoded
//   - ErrBackendUnavailable – the store failed to serve the request
//   - ErrMissingStore      – identity was read without the middleware wired
//
// IsUnauthenticated groups the first three: callers resolving identity treat
// them as an anonymous caller, never as a server fault.
package session
