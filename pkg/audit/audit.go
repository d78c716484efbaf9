package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Extractor pulls a request-scoped value out of a context.
type Extractor func(context.Context) string

// Logger builds events from the request context and writes them to a
// Storage.
type Logger struct {
	storage   Storage
	requestID Extractor
	ip        Extractor
	now       func() time.Time
}

type Option func(*Logger)

func WithRequestIDExtractor(fn Extractor) Option {
	return func(l *Logger) {
		l.requestID = fn
	}
}

func WithIPExtractor(fn Extractor) Option {
	return func(l *Logger) {
		l.ip = fn
	}
}

// NewLogger creates a new audit logger
func NewLogger(storage Storage, opts ...Option) *Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &Logger{storage: storage, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Log records a successful action unless an option overrides the result.
func (l *Logger) Log(ctx context.Context, action string, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultSuccess)
	for _, opt := range opts {
		opt(&event)
	}
	return l.store(ctx, event)
}

// LogError records an action that failed with err.
func (l *Logger) LogError(ctx context.Context, action string, err error, opts ...EventOption) error {
	event := l.newEvent(ctx, action, ResultError)
	if err != nil {
		event.Error = err.Error()
	}
	for _, opt := range opts {
		opt(&event)
	}
	return l.store(ctx, event)
}

func (l *Logger) newEvent(ctx context.Context, action string, result Result) Event {
	event := Event{
		ID:        uuid.New(),
		Action:    action,
		Result:    result,
		CreatedAt: l.now().UTC(),
	}
	if l.requestID != nil {
		event.RequestID = l.requestID(ctx)
	}
	if l.ip != nil {
		event.IP = l.ip(ctx)
	}
	return event
}

func (l *Logger) store(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}
