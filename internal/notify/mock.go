package notify

import (
	"context"
	"sync"
)

// MockNotifier implements Notifier for testing. It records delivered events
// and can be made to fail.
type MockNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
}

// NewMockNotifier returns an empty mock.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// FailWith makes subsequent deliveries return err.
func (m *MockNotifier) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// BrewReady records the event.
func (m *MockNotifier) BrewReady(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

// Events returns a copy of the delivered events.
func (m *MockNotifier) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
