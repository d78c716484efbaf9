package session

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/bluebird/pkg/logger"
)

// Identity is the caller resolved from a request. The zero value is anonymous.
type Identity struct {
	UserID uuid.UUID
}

// Anonymous is the identity of a caller without a usable session.
var Anonymous = Identity{}

// IsAnonymous reports whether no user is attached to the identity.
func (i Identity) IsAnonymous() bool {
	return i.UserID == uuid.Nil
}

// Extractor resolves the caller identity from the session cookie.
// It only reads sessions and never saves them.
type Extractor struct {
	store      Store
	cookieName string
	userIDKey  string
	logger     *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithExtractorLogger sets the logger for resolution diagnostics.
func WithExtractorLogger(l *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor binds an Extractor to store.
// It panics when store is nil: a missing store is a wiring fault, not an
// anonymous caller.
func NewExtractor(store Store, cfg Config, opts ...ExtractorOption) *Extractor {
	if store == nil {
		panic("session: extractor requires a store")
	}

	e := &Extractor{
		store:      store,
		cookieName: cfg.CookieName,
		userIDKey:  cfg.UserIDKey,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the extractor reads from.
func (e *Extractor) Store() Store {
	return e.store
}

// Resolve returns the caller identity for r.
// Missing, malformed, unknown and expired sessions all resolve to Anonymous
// with a nil error; only backend failures are returned.
func (e *Extractor) Resolve(r *http.Request) (Identity, error) {
	c, err := r.Cookie(e.cookieName)
	if err != nil || c.Value == "" {
		return Anonymous, nil
	}

	sess, err := e.store.Load(r.Context(), c.Value)
	if err != nil {
		if IsUnauthenticated(err) {
			e.logger.DebugContext(r.Context(), "session not usable, resolving anonymous", logger.Error(err))
			return Anonymous, nil
		}
		return Anonymous, err
	}

	userID, ok := Value[uuid.UUID](sess, e.userIDKey)
	if !ok || userID == uuid.Nil {
		return Anonymous, nil
	}

	return Identity{UserID: userID}, nil
}
