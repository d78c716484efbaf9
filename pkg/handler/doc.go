// Package handler provides typed HTTP handlers: a request is bound into a
// struct, handled, and answered with a Response value.
//
//	type loginRequest struct {
//	    Username string `json:"username"`
//	}
//
//	r.Post("/auth", handler.Wrap(func(ctx handler.Context, req loginRequest) handler.Response {
//	    return handler.Empty()
//	}, handler.WithBinders(handler.BindJSON())))
//
// Errors from binders, handlers and renderers go through one ErrorHandler.
// HTTPError values keep their status; everything else becomes a generic 500.
package handler
