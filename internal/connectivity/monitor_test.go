package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorEdgeTriggered(t *testing.T) {
	m := NewMonitor(true)
	assert.True(t, m.Online())

	var transitions []bool
	m.Subscribe(func(online bool) {
		transitions = append(transitions, online)
	})

	m.SetOnline(true) // no edge
	assert.Empty(t, transitions)

	m.SetOnline(false)
	m.SetOnline(false) // repeated report, no edge
	m.SetOnline(true)

	assert.Equal(t, []bool{false, true}, transitions)
	assert.True(t, m.Online())
}

func TestMonitorMultipleSubscribers(t *testing.T) {
	m := NewMonitor(false)

	var a, b int
	m.Subscribe(func(bool) { a++ })
	m.Subscribe(func(bool) { b++ })

	m.SetOnline(true)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}
