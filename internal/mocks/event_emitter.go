package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/events"
)

// MockEventEmitter records emitted events for testing.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.StudyEvent) error

	// Err is returned by EmitEvent after recording the event.
	Err error

	mu     sync.Mutex
	events []*events.StudyEvent
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.StudyEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return m.Err
}

// Events returns the events emitted so far.
func (m *MockEventEmitter) Events() []*events.StudyEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.StudyEvent(nil), m.events...)
}
