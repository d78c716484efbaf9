package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/bluebird/pkg/auth"
	"github.com/dmitrymomot/bluebird/pkg/cookie"
	"github.com/dmitrymomot/bluebird/pkg/handler"
	"github.com/dmitrymomot/bluebird/pkg/logger"
	"github.com/dmitrymomot/bluebird/pkg/session"
)

var (
	errUsernameTaken  = handler.NewHTTPError(http.StatusConflict, "username_taken")
	errInvalidInput   = handler.NewHTTPError(http.StatusUnprocessableEntity, "invalid_input")
	errUserNotFound   = handler.NewHTTPError(http.StatusNotFound, "user_not_found")
	errWrongPassword  = handler.NewHTTPError(http.StatusUnprocessableEntity, "wrong_password")
	errUnauthenticate = handler.ErrUnauthorized
)

// Module serves user registration and the cookie session endpoints.
type Module struct {
	auth      *auth.Service
	extractor *session.Extractor
	cookies   *cookie.Manager
	logger    *slog.Logger
	throttle  []func(http.Handler) http.Handler
}

type Option func(*Module)

func WithLogger(l *slog.Logger) Option {
	return func(m *Module) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithLoginThrottle guards POST /auth and POST /users with the given
// middlewares.
func WithLoginThrottle(mw ...func(http.Handler) http.Handler) Option {
	return func(m *Module) {
		m.throttle = append(m.throttle, mw...)
	}
}

// New wires the module. The cookie manager decides the session cookie
// name and attributes; the extractor must read the same cookie name.
func New(svc *auth.Service, extractor *session.Extractor, cookies *cookie.Manager, opts ...Option) *Module {
	m := &Module{
		auth:      svc,
		extractor: extractor,
		cookies:   cookies,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Router mounts:
//
//	POST   /users  register
//	POST   /auth   log in, sets the session cookie
//	GET    /auth   current user id
//	DELETE /auth   log out, clears the session cookie
func (m *Module) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(m.extractor.Middleware)

	bindJSON := handler.WithBinders(handler.BindJSON())
	onError := handler.WithErrorHandler(handler.NewErrorHandler(m.logger))

	r.With(m.throttle...).Post("/users", handler.Wrap(m.register, bindJSON, onError))
	r.With(m.throttle...).Post("/auth", handler.Wrap(m.login, bindJSON, onError))
	r.With(session.RequireAuth).Get("/auth", handler.Wrap(m.whoami, onError))
	r.Delete("/auth", handler.Wrap(m.logout, onError))

	return r
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (m *Module) register(ctx handler.Context, req credentials) handler.Response {
	_, err := m.auth.Register(ctx, req.Username, req.Password)
	switch {
	case err == nil:
		return handler.Empty()
	case errors.Is(err, auth.ErrInvalidInput):
		return handler.Fail(errInvalidInput)
	case errors.Is(err, auth.ErrUsernameTaken):
		return handler.Fail(errUsernameTaken)
	default:
		return handler.Fail(err)
	}
}

func (m *Module) login(ctx handler.Context, req credentials) handler.Response {
	value, _, err := m.auth.Login(ctx, req.Username, req.Password)
	switch {
	case err == nil:
		return handler.WithHeaders(handler.Empty(), func(w http.ResponseWriter) error {
			return m.cookies.Set(w, value)
		})
	case errors.Is(err, auth.ErrInvalidInput):
		return handler.Fail(errInvalidInput)
	case errors.Is(err, auth.ErrUserNotFound):
		return handler.Fail(errUserNotFound)
	case errors.Is(err, auth.ErrWrongPassword):
		return handler.Fail(errWrongPassword)
	default:
		return handler.Fail(err)
	}
}

func (m *Module) whoami(ctx handler.Context, _ struct{}) handler.Response {
	id, ok := session.UserIDFromContext(ctx)
	if !ok {
		return handler.Fail(errUnauthenticate)
	}
	return handler.Text(id.String())
}

func (m *Module) logout(ctx handler.Context, _ struct{}) handler.Response {
	value, err := m.cookies.Get(ctx.Request())
	if err == nil {
		if err := m.auth.Logout(ctx, value); err != nil {
			return handler.Fail(err)
		}
	}
	return handler.WithHeaders(handler.Empty(), func(w http.ResponseWriter) error {
		m.cookies.Delete(w)
		return nil
	})
}
