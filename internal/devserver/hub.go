package devserver

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// ChangeEvent mirrors the hosted backend's row-change notification shape.
type ChangeEvent struct {
	Table     string `json:"table"`
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
}

// hub fans change events out to every connected websocket client.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
	log   zerolog.Logger
}

func newHub(log zerolog.Logger) *hub {
	return &hub{conns: make(map[*websocket.Conn]bool), log: log}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = true
	h.mu.Unlock()
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.Close()
}

func (h *hub) broadcast(ev ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		if err := c.WriteJSON(ev); err != nil {
			h.log.Debug().Err(err).Msg("dropping dead change-feed client")
			delete(h.conns, c)
			c.Close()
		}
	}
}
