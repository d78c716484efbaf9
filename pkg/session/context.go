package session

import (
	"context"

	"github.com/google/uuid"
)

type (
	identityContextKey struct{}
	storeContextKey    struct{}
)

// WithIdentity adds a resolved identity to the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the identity resolved by Extractor.Middleware.
// It returns ErrMissingStore when the middleware did not run for this request.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok {
		return Anonymous, ErrMissingStore
	}
	return id, nil
}

// UserIDFromContext returns the authenticated user id, if any
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, err := IdentityFromContext(ctx)
	if err != nil || id.IsAnonymous() {
		return uuid.Nil, false
	}
	return id.UserID, true
}

// WithStore binds a store to the context
func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// StoreFromContext retrieves the bound store or ErrMissingStore
func StoreFromContext(ctx context.Context) (Store, error) {
	store, ok := ctx.Value(storeContextKey{}).(Store)
	if !ok || store == nil {
		return nil, ErrMissingStore
	}
	return store, nil
}
