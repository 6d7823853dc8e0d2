package session

import "time"

type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventRefreshed EventType = "refreshed"
)

// Event describes a session state change.
type Event struct {
	Type    EventType
	Session Session
	At      time.Time
}

// Listener receives session changes synchronously on the mutating goroutine.
type Listener func(Event)

// Subscribe registers listener for every future session change. The returned
// function removes it and is safe to call more than once.
func (m *Manager) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = listener
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish(evt Event) {
	m.mu.RLock()
	listeners := make([]Listener, 0, len(m.listeners))
	for _, listener := range m.listeners {
		listeners = append(listeners, listener)
	}
	m.mu.RUnlock()

	for _, listener := range listeners {
		listener(evt)
	}
}
