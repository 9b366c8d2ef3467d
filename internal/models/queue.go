package models

import (
	"encoding/json"
	"time"
)

// QueuedAction is one deferred mutation awaiting replay. The payload is an
// opaque JSON document interpreted by the action's registered executor.
type QueuedAction struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Payload      json.RawMessage `json:"payload"`
	EnqueuedAt   time.Time       `json:"enqueuedAt"`
	AttemptCount int             `json:"attemptCount"`
}
