package audit

import (
	"context"
	"slices"
	"sync"
)

// MemoryStorage keeps events in process, newest last.
type MemoryStorage struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Store(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the stored events.
func (m *MemoryStorage) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}
