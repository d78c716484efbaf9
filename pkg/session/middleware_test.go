package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bluebird/pkg/session"
)

// failingStore simulates an unavailable backend.
type failingStore struct{}

func (failingStore) Load(context.Context, string) (*session.Session, error) {
	return nil, errors.Join(session.ErrBackendUnavailable, errors.New("connection refused"))
}

func (failingStore) Save(context.Context, *session.Session) (string, error) {
	return "", session.ErrBackendUnavailable
}

func (failingStore) Delete(context.Context, string) error {
	return session.ErrBackendUnavailable
}

func setupExtractor(t *testing.T) (*session.Extractor, *session.MemoryStore, session.Config) {
	t.Helper()
	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	cfg := session.DefaultConfig()
	return session.NewExtractor(store, cfg), store, cfg
}

func issueCookie(t *testing.T, store session.Store, build func(*session.Session)) string {
	t.Helper()
	sess := session.New()
	if build != nil {
		build(sess)
	}
	cookie, err := store.Save(context.Background(), sess)
	require.NoError(t, err)
	return cookie
}

func requestWithCookie(cfg session.Config, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: value})
	}
	return r
}

func TestExtractor_Resolve(t *testing.T) {
	extractor, store, cfg := setupExtractor(t)

	t.Run("no cookie is anonymous", func(t *testing.T) {
		id, err := extractor.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.True(t, id.IsAnonymous())
	})

	t.Run("other cookies are ignored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
		id, err := extractor.Resolve(r)
		require.NoError(t, err)
		assert.Equal(t, session.Anonymous, id)
	})

	t.Run("authenticated", func(t *testing.T) {
		uid := uuid.New()
		cookie := issueCookie(t, store, func(s *session.Session) {
			require.NoError(t, s.Insert(cfg.UserIDKey, uid))
		})

		id, err := extractor.Resolve(requestWithCookie(cfg, cookie))
		require.NoError(t, err)
		assert.False(t, id.IsAnonymous())
		assert.Equal(t, uid, id.UserID)
	})

	t.Run("session without user id", func(t *testing.T) {
		cookie := issueCookie(t, store, func(s *session.Session) {
			require.NoError(t, s.Insert("cart", []string{"a"}))
		})

		id, err := extractor.Resolve(requestWithCookie(cfg, cookie))
		require.NoError(t, err)
		assert.True(t, id.IsAnonymous())
	})

	t.Run("malformed user id", func(t *testing.T) {
		cookie := issueCookie(t, store, func(s *session.Session) {
			require.NoError(t, s.Insert(cfg.UserIDKey, 42))
		})

		id, err := extractor.Resolve(requestWithCookie(cfg, cookie))
		require.NoError(t, err)
		assert.True(t, id.IsAnonymous())
	})

	t.Run("expired session", func(t *testing.T) {
		cookie := issueCookie(t, store, func(s *session.Session) {
			require.NoError(t, s.Insert(cfg.UserIDKey, uuid.New()))
			s.SetExpiry(time.Now().Add(-time.Minute))
		})

		id, err := extractor.Resolve(requestWithCookie(cfg, cookie))
		require.NoError(t, err)
		assert.True(t, id.IsAnonymous())
	})

	t.Run("unknown and malformed cookies", func(t *testing.T) {
		unknown, err := session.GenerateCookie(session.MinCookieLength)
		require.NoError(t, err)

		for _, value := range []string{unknown, "not-base64!"} {
			id, err := extractor.Resolve(requestWithCookie(cfg, value))
			require.NoError(t, err)
			assert.True(t, id.IsAnonymous())
		}
	})

	t.Run("does not mutate the session", func(t *testing.T) {
		cookie := issueCookie(t, store, func(s *session.Session) {
			require.NoError(t, s.Insert(cfg.UserIDKey, uuid.New()))
		})
		before := store.Len()

		_, err := extractor.Resolve(requestWithCookie(cfg, cookie))
		require.NoError(t, err)
		assert.Equal(t, before, store.Len())
	})

	t.Run("backend failure is returned", func(t *testing.T) {
		failing := session.NewExtractor(failingStore{}, cfg)
		cookie, err := session.GenerateCookie(session.MinCookieLength)
		require.NoError(t, err)

		_, err = failing.Resolve(requestWithCookie(cfg, cookie))
		assert.ErrorIs(t, err, session.ErrBackendUnavailable)
	})
}

func TestNewExtractor_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		session.NewExtractor(nil, session.DefaultConfig())
	})
}

func TestMiddleware(t *testing.T) {
	extractor, store, cfg := setupExtractor(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := session.IdentityFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		bound, err := session.StoreFromContext(r.Context())
		if err != nil || bound == nil {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		if uid, ok := session.UserIDFromContext(r.Context()); ok {
			w.Header().Set("X-User-ID", uid.String())
		}
		w.Header().Set("X-Anonymous", boolString(id.IsAnonymous()))
		w.WriteHeader(http.StatusOK)
	})

	middleware := extractor.Middleware(handler)

	t.Run("adds identity to context", func(t *testing.T) {
		uid := uuid.New()
		cookie := issueCookie(t, store, func(s *session.Session) {
			require.NoError(t, s.Insert(cfg.UserIDKey, uid))
		})

		w := httptest.NewRecorder()
		middleware.ServeHTTP(w, requestWithCookie(cfg, cookie))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uid.String(), w.Header().Get("X-User-ID"))
		assert.Equal(t, "false", w.Header().Get("X-Anonymous"))
	})

	t.Run("continues anonymously without cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		middleware.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-User-ID"))
		assert.Equal(t, "true", w.Header().Get("X-Anonymous"))
	})

	t.Run("backend failure is a server error", func(t *testing.T) {
		failing := session.NewExtractor(failingStore{}, cfg).Middleware(handler)
		cookie, err := session.GenerateCookie(session.MinCookieLength)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		failing.ServeHTTP(w, requestWithCookie(cfg, cookie))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestRequireAuth(t *testing.T) {
	extractor, store, cfg := setupExtractor(t)

	protected := session.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := session.UserIDFromContext(r.Context())
		w.Header().Set("X-User-ID", uid.String())
		w.WriteHeader(http.StatusOK)
	}))
	wired := extractor.Middleware(protected)

	t.Run("allows authenticated session", func(t *testing.T) {
		uid := uuid.New()
		cookie := issueCookie(t, store, func(s *session.Session) {
			require.NoError(t, s.Insert(cfg.UserIDKey, uid))
		})

		w := httptest.NewRecorder()
		wired.ServeHTTP(w, requestWithCookie(cfg, cookie))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, uid.String(), w.Header().Get("X-User-ID"))
	})

	t.Run("blocks anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		wired.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing middleware fails loudly", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestContext(t *testing.T) {
	t.Run("identity missing", func(t *testing.T) {
		id, err := session.IdentityFromContext(context.Background())
		assert.ErrorIs(t, err, session.ErrMissingStore)
		assert.True(t, id.IsAnonymous())

		_, ok := session.UserIDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("store missing", func(t *testing.T) {
		_, err := session.StoreFromContext(context.Background())
		assert.ErrorIs(t, err, session.ErrMissingStore)
	})

	t.Run("round trip", func(t *testing.T) {
		uid := uuid.New()
		store := session.NewMemoryStore(0)
		defer store.Close()

		ctx := session.WithIdentity(context.Background(), session.Identity{UserID: uid})
		ctx = session.WithStore(ctx, store)

		got, ok := session.UserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, uid, got)

		bound, err := session.StoreFromContext(ctx)
		require.NoError(t, err)
		assert.Same(t, store, bound)
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
