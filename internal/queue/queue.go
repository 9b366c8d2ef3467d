// Package queue is the durable offline action queue. Mutating actions
// attempted without connectivity are persisted here and replayed in FIFO
// order when the connection comes back.
package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/vikkirkobane/karma-club-sub000/pkg/errors"

	"github.com/vikkirkobane/karma-club-sub000/internal/cache"
	"github.com/vikkirkobane/karma-club-sub000/internal/connectivity"
	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

// MaxAttempts is the flat retry ceiling. No backoff; replay cadence is driven
// by connectivity edges, not timers.
const MaxAttempts = 3

const storageKey = "offline_queue"

// Outcome tells the caller what happened to an enqueued action. A deferred
// action is not a success; the UI reports it as pending.
type Outcome string

const (
	OutcomeExecuted Outcome = "EXECUTED"
	OutcomeDeferred Outcome = "DEFERRED"
)

// Executor replays one action against the backend.
type Executor func(ctx context.Context, action models.QueuedAction) error

// DropFunc receives actions permanently removed without success, so the user
// is told rather than data vanishing silently.
type DropFunc func(action models.QueuedAction, err error)

type Queue struct {
	mu         sync.Mutex
	processing bool
	actions    []models.QueuedAction

	store  cache.Store
	online func() bool
	exec   Executor
	onDrop DropFunc
	log    zerolog.Logger
}

// New loads any persisted snapshot from the store. A corrupt snapshot is
// treated as an empty queue: startup never fails on bad cache contents.
func New(store cache.Store, online func() bool, exec Executor, onDrop DropFunc, log zerolog.Logger) *Queue {
	q := &Queue{
		store:  store,
		online: online,
		exec:   exec,
		onDrop: onDrop,
		log:    log,
	}
	if onDrop == nil {
		q.onDrop = func(models.QueuedAction, error) {}
	}

	raw, ok, err := store.Get(context.Background(), storageKey)
	if err != nil {
		log.Warn().Err(err).Msg("offline queue snapshot unreadable, starting empty")
		return q
	}
	if ok {
		if err := json.Unmarshal(raw, &q.actions); err != nil {
			log.Warn().Err(err).Msg("offline queue snapshot corrupt, starting empty")
			q.actions = nil
		}
	}
	return q
}

// BindConnectivity replays one queued action whenever connectivity returns.
func (q *Queue) BindConnectivity(ctx context.Context, m *connectivity.Monitor) {
	m.Subscribe(func(online bool) {
		if online && q.Len() > 0 {
			if err := q.ProcessQueue(ctx); err != nil {
				q.log.Warn().Err(err).Msg("queue replay failed")
			}
		}
	})
}

// Enqueue executes the action immediately when online, returning its result.
// Offline it persists the action and reports a deferred outcome.
func (q *Queue) Enqueue(ctx context.Context, kind string, payload any) (Outcome, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return OutcomeExecuted, apperrors.Validation("encode queued action: " + err.Error())
	}
	action := models.QueuedAction{
		ID:         uuid.New().String(),
		Kind:       kind,
		Payload:    raw,
		EnqueuedAt: time.Now(),
	}

	if q.online() {
		return OutcomeExecuted, q.exec(ctx, action)
	}

	q.mu.Lock()
	q.actions = append(q.actions, action)
	err = q.persistLocked(ctx)
	q.mu.Unlock()
	if err != nil {
		return OutcomeDeferred, err
	}
	q.log.Info().Str("kind", kind).Str("action_id", action.ID).Msg("action deferred while offline")
	return OutcomeDeferred, nil
}

// ProcessQueue replays exactly the head action. It is a no-op when already
// processing, empty, or offline; concurrent callers are serialized, never
// parallelized. Draining is driven by repeated triggers, not a loop here.
func (q *Queue) ProcessQueue(ctx context.Context) error {
	q.mu.Lock()
	if q.processing || len(q.actions) == 0 || !q.online() {
		q.mu.Unlock()
		return nil
	}
	q.processing = true
	head := q.actions[0]
	q.mu.Unlock()

	execErr := q.exec(ctx, head)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.processing = false

	// The head may have been joined by new tail entries during execution;
	// it is still at position 0.
	q.actions = q.actions[1:]

	switch {
	case execErr == nil:
		q.log.Info().Str("action_id", head.ID).Str("kind", head.Kind).Msg("queued action replayed")
	case apperrors.IsValidation(execErr):
		// Retrying cannot change the outcome.
		q.onDrop(head, execErr)
	default:
		head.AttemptCount++
		if head.AttemptCount >= MaxAttempts {
			dropErr := apperrors.Wrap(apperrors.KindRetriesExhausted, "action dropped after 3 failed attempts", execErr)
			q.log.Error().Str("action_id", head.ID).Str("kind", head.Kind).Msg("retry ceiling reached, dropping action")
			q.onDrop(head, dropErr)
		} else {
			q.actions = append(q.actions, head)
		}
	}

	return q.persistLocked(ctx)
}

// Len returns the number of pending actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// Pending returns a copy of the queued actions for display.
func (q *Queue) Pending() []models.QueuedAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.QueuedAction, len(q.actions))
	copy(out, q.actions)
	return out
}

func (q *Queue) persistLocked(ctx context.Context) error {
	raw, err := json.Marshal(q.actions)
	if err != nil {
		return err
	}
	return q.store.Set(ctx, storageKey, raw)
}
