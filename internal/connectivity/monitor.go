// Package connectivity tracks the online/offline signal. The platform layer
// pushes transitions in; consumers subscribe to edges, they do not poll.
package connectivity

import "sync"

// Monitor is edge-triggered: subscribers fire only when the state actually
// changes, not on every SetOnline call.
type Monitor struct {
	mu     sync.Mutex
	online bool
	subs   []func(online bool)
}

// NewMonitor starts in the given state without notifying anyone.
func NewMonitor(online bool) *Monitor {
	return &Monitor{online: online}
}

// Online returns the current state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers a transition callback. Callbacks run synchronously on
// the goroutine that reported the transition.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SetOnline reports the current connectivity. Repeated reports of the same
// state are ignored.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(online)
	}
}
