package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/bluebird/pkg/logger"
)

// Context exposes the request and response writer alongside the request
// context.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
}

type httpContext struct {
	w http.ResponseWriter
	r *http.Request
}

func (c *httpContext) Request() *http.Request              { return c.r }
func (c *httpContext) ResponseWriter() http.ResponseWriter { return c.w }

func (c *httpContext) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *httpContext) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *httpContext) Err() error                  { return c.r.Context().Err() }
func (c *httpContext) Value(key any) any           { return c.r.Context().Value(key) }

// HandlerFunc handles a request already bound into R.
type HandlerFunc[R any] func(ctx Context, req R) Response

// Response renders itself to the client.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind decodes the request into v.
type Bind func(r *http.Request, v any) error

// ErrorHandler writes the response for a failed bind, handler or render.
type ErrorHandler func(ctx Context, err error)

type wrapConfig struct {
	binders      []Bind
	errorHandler ErrorHandler
}

type WrapOption func(*wrapConfig)

// WithBinders sets binders applied in order before the handler runs.
func WithBinders(binders ...Bind) WrapOption {
	return func(c *wrapConfig) {
		c.binders = append(c.binders, binders...)
	}
}

func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// Wrap turns a typed handler into an http.HandlerFunc.
func Wrap[R any](h HandlerFunc[R], opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{errorHandler: NewErrorHandler(nil)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := &httpContext{w: w, r: r}

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				cfg.errorHandler(ctx, err)
				return
			}
		}

		resp := h(ctx, req)
		if resp == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := resp.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

// NewErrorHandler renders HTTPError values with their status and key.
// Anything else is logged and answered with a generic 500 so internal
// error text never reaches the client.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}
	return func(ctx Context, err error) {
		var httpErr HTTPError
		if !errors.As(err, &httpErr) {
			log.ErrorContext(ctx, "request failed", logger.Error(err))
			httpErr = ErrInternalServerError
		}
		_ = Error(httpErr).Render(ctx.ResponseWriter(), ctx.Request())
	}
}
