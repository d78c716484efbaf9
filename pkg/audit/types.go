package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result represents the outcome of an audited action
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Actions recorded by the auth service.
const (
	ActionRegister = "user.register"
	ActionLogin    = "auth.login"
	ActionLogout   = "auth.logout"
)

// Event represents a single audit log entry
type Event struct {
	ID        uuid.UUID      `json:"id"`
	UserID    string         `json:"user_id,omitempty"`
	Action    string         `json:"action"`
	Result    Result         `json:"result"`
	Error     string         `json:"error,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	IP        string         `json:"ip,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Validate checks if the event has all required fields
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	switch e.Result {
	case ResultSuccess, ResultFailure, ResultError:
	default:
		return fmt.Errorf("%w: unknown result %q", ErrEventValidation, e.Result)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

func WithUserID(id uuid.UUID) EventOption {
	return func(e *Event) {
		if id != uuid.Nil {
			e.UserID = id.String()
		}
	}
}

// WithMetadata adds metadata to the event
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}

// WithResult sets the event result
func WithResult(result Result) EventOption {
	return func(e *Event) {
		e.Result = result
	}
}
