package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Manager reads and writes one named cookie with fixed default attributes.
// Values are written as-is: callers that need integrity must put an
// unguessable value in the cookie.
type Manager struct {
	name     string
	defaults Options
}

// New creates a Manager for the cookie called name. Defaults are Path=/,
// HttpOnly and SameSite=Lax.
func New(name string, opts ...Option) (*Manager, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	defaults := apply(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{name: name, defaults: defaults}, nil
}

// Name returns the cookie name.
func (m *Manager) Name() string {
	return m.name
}

// Set writes value. Per-call options override the defaults.
func (m *Manager) Set(w http.ResponseWriter, value string, opts ...Option) error {
	if !validValue(value) {
		return ErrInvalidValue
	}
	o := apply(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
	return nil
}

// Get returns the cookie value or ErrCookieNotFound. An empty value counts
// as missing.
func (m *Manager) Get(r *http.Request) (string, error) {
	c, err := r.Cookie(m.name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	if c.Value == "" {
		return "", ErrCookieNotFound
	}
	return c.Value, nil
}

// Delete tells the client to drop the cookie.
func (m *Manager) Delete(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}

// validValue rejects bytes net/http would silently drop from a cookie value.
func validValue(v string) bool {
	for i := 0; i < len(v); i++ {
		b := v[i]
		if b <= 0x20 || b >= 0x7f || b == '"' || b == ';' || b == '\\' || b == ',' {
			return false
		}
	}
	return true
}
