package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/taskdesk/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing
type MockEventEmitter struct {
	// Err is returned from every EmitEvent call
	Err error

	mu     sync.Mutex
	events []*events.AuthFaultEvent
}

// EmitEvent implements the events.EventEmitter interface
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.AuthFaultEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns a copy of every emitted event
func (m *MockEventEmitter) Events() []*events.AuthFaultEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.AuthFaultEvent, len(m.events))
	copy(out, m.events)
	return out
}
