package handler

import (
	"encoding/json"
	"net/http"
)

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty answers 204 No Content.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

type textResponse struct {
	status int
	body   string
}

func (t textResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(t.status)
	_, err := w.Write([]byte(t.body))
	return err
}

// Text answers 200 with a plain-text body.
func Text(body string) Response {
	return textResponse{status: http.StatusOK, body: body}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	err HTTPError
}

func (e errorResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.err.Code)
	return json.NewEncoder(w).Encode(ErrorBody{Error: ErrorDetail{
		Code:    e.err.Key,
		Message: http.StatusText(e.err.Code),
	}})
}

// Error renders err as a JSON error body with its status.
func Error(err HTTPError) Response {
	return errorResponse{err: err}
}

type headerResponse struct {
	next  Response
	write func(http.ResponseWriter) error
}

func (c headerResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if err := c.write(w); err != nil {
		return err
	}
	return c.next.Render(w, r)
}

// WithHeaders runs write before rendering next, so cookies and headers can
// be attached to any response.
func WithHeaders(next Response, write func(http.ResponseWriter) error) Response {
	return headerResponse{next: next, write: write}
}

type failResponse struct {
	err error
}

func (f failResponse) Render(http.ResponseWriter, *http.Request) error {
	return f.err
}

// Fail hands err to the ErrorHandler instead of rendering anything.
func Fail(err error) Response {
	return failResponse{err: err}
}
