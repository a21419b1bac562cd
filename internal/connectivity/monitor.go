// Package connectivity tracks online/offline state. Transitions are fed
// in from platform events; the monitor never polls.
package connectivity

import (
	"sync"

	"github.com/quicklist/quicklist/internal/logger"
)

// State is the connectivity state.
type State int

const (
	Offline State = iota
	Online
)

// String returns the state name.
func (s State) String() string {
	if s == Online {
		return "online"
	}
	return "offline"
}

// Monitor is a two-state machine over platform connectivity events.
// Subscribers are notified exactly once per transition; duplicate events
// collapse. Subscribing never fires retroactively, and current state is
// always readable synchronously.
type Monitor struct {
	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewMonitor creates a monitor seeded with the platform's reported
// connectivity at startup.
func NewMonitor(online bool) *Monitor {
	state := Offline
	if online {
		state = Online
	}
	return &Monitor{state: state, subs: map[int]func(State){}}
}

// State returns the current connectivity state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Online reports whether the monitor currently considers the platform online.
func (m *Monitor) Online() bool {
	return m.State() == Online
}

// Deliver ingests a platform connectivity event. Events that do not
// change the state are dropped, so flapping duplicate events produce a
// single notification per actual transition.
func (m *Monitor) Deliver(online bool) {
	next := Offline
	if online {
		next = Online
	}

	m.mu.Lock()
	if next == m.state {
		m.mu.Unlock()
		return
	}
	m.state = next
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	logger.Info("Connectivity changed", logger.F("state", next.String()))
	for _, fn := range subs {
		fn(next)
	}
}

// Subscribe registers a transition callback and returns an unsubscribe
// function. No callback fires at subscription time.
func (m *Monitor) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}
