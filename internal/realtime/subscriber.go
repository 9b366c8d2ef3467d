// Package realtime consumes the hosted backend's change-notification feed.
// Delivery is at-least-once, possibly duplicated, possibly out of order
// relative to our own writes, so event payloads are never trusted: the only
// reaction to any relevant event is triggering an authoritative refresh.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ChangeEvent is one row-change notification from the backend.
type ChangeEvent struct {
	Table     string `json:"table"`
	EventType string `json:"eventType"`
	UserID    string `json:"userId"`
}

// RefreshFunc triggers an authoritative stats refresh.
type RefreshFunc func(ctx context.Context) error

const (
	reconnectDelay = 5 * time.Second
	eventBuffer    = 64
)

// Subscriber dials the change feed and funnels relevant events through a
// single consumer loop into the refresh path.
type Subscriber struct {
	url     string
	userID  string
	refresh RefreshFunc
	log     zerolog.Logger

	// Refresh storms from bursty notifications are throttled here; a burst
	// collapses into at most one refresh per second plus the coalescing
	// inside the stats service itself.
	limiter *rate.Limiter

	events chan ChangeEvent
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSubscriber(url, userID string, refresh RefreshFunc, log zerolog.Logger) *Subscriber {
	return &Subscriber{
		url:     url,
		userID:  userID,
		refresh: refresh,
		log:     log,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		events:  make(chan ChangeEvent, eventBuffer),
		done:    make(chan struct{}),
	}
}

// Run starts the read and consume loops and returns immediately.
func (s *Subscriber) Run(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.readLoop(ctx)
	go s.consumeLoop(ctx)
}

// Close stops both loops and waits for the consumer to drain. A Subscriber
// that was never Run closes immediately.
func (s *Subscriber) Close() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Subscriber) readLoop(ctx context.Context) {
	defer close(s.events)
	for {
		if ctx.Err() != nil {
			return
		}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if err != nil {
			s.log.Warn().Err(err).Msg("change feed dial failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
				continue
			}
		}
		s.readConn(ctx, conn)
	}
}

func (s *Subscriber) readConn(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.log.Warn().Err(err).Msg("change feed read failed, reconnecting")
			}
			return
		}
		var ev ChangeEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			s.log.Warn().Err(err).Msg("unparseable change event dropped")
			continue
		}
		select {
		case s.events <- ev:
		default:
			// A full buffer means a refresh is already overdue; dropping
			// duplicates is safe since refresh rereads everything.
			s.log.Debug().Msg("change event buffer full, dropping event")
		}
	}
}

func (s *Subscriber) consumeLoop(ctx context.Context) {
	defer close(s.done)
	for ev := range s.events {
		if ev.UserID != "" && ev.UserID != s.userID {
			continue
		}
		if !s.limiter.Allow() {
			continue
		}
		s.log.Debug().Str("table", ev.Table).Str("event", ev.EventType).Msg("change event, refreshing")
		if err := s.refresh(ctx); err != nil {
			s.log.Warn().Err(err).Msg("notification-triggered refresh failed")
		}
	}
}
