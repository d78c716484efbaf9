package session

import (
	"net/http"

	"github.com/dmitrymomot/bluebird/pkg/logger"
)

// Middleware resolves the caller identity and binds it, together with the
// store, to the request context. Backend failures end the request with 500.
func (e *Extractor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := e.Resolve(r)
		if err != nil {
			e.logger.ErrorContext(r.Context(), "failed to resolve session identity", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		ctx := WithStore(r.Context(), e.store)
		ctx = WithIdentity(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous callers with 401.
// It must run behind Extractor.Middleware; otherwise every request fails with 500.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := IdentityFromContext(r.Context())
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if id.IsAnonymous() {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
