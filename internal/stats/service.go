// Package stats owns the session user's progression state: optimistic local
// updates, authoritative refresh from the system of record, and the offline
// submission path. One Service instance exists per authenticated session,
// created on login and cleared on logout; nothing here is global.
package stats

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	apperrors "github.com/vikkirkobane/karma-club-sub000/pkg/errors"

	"github.com/vikkirkobane/karma-club-sub000/internal/badges"
	"github.com/vikkirkobane/karma-club-sub000/internal/cache"
	"github.com/vikkirkobane/karma-club-sub000/internal/catalog"
	"github.com/vikkirkobane/karma-club-sub000/internal/models"
	"github.com/vikkirkobane/karma-club-sub000/internal/progress"
	"github.com/vikkirkobane/karma-club-sub000/internal/queue"
	"github.com/vikkirkobane/karma-club-sub000/internal/remote"
)

// ActionSubmitActivity is the queued-action kind for deferred submissions.
const ActionSubmitActivity = "submit_activity"

const snapshotKeyPrefix = "stats_snapshot:"

// RemoteStore is the slice of the hosted backend this service consumes.
type RemoteStore interface {
	FetchStats(ctx context.Context, userID string) (remote.StatsRow, error)
	SubmitActivity(ctx context.Context, userID, activityID, description, mediaURL string) (remote.Submission, error)
	AddPoints(ctx context.Context, userID string, delta int) (remote.Totals, error)
}

// Config wires a Service. Everything is injected; the Service owns only its
// in-memory stats and the offline queue it builds around its own executor.
type Config struct {
	UserID    string
	Catalog   *catalog.Catalog
	BadgeDefs []models.Badge
	Remote    RemoteStore
	Store     cache.Store
	Online    func() bool
	OnDrop    queue.DropFunc
	Log       zerolog.Logger
}

type Service struct {
	userID    string
	cat       *catalog.Catalog
	badgeDefs []models.Badge
	tierOrder []string
	remote    RemoteStore
	store     cache.Store
	queue     *queue.Queue
	log       zerolog.Logger

	mu     sync.Mutex
	stats  models.UserStats
	badges map[string]bool

	flight singleflight.Group
}

type snapshot struct {
	Stats  models.UserStats `json:"stats"`
	Badges []string         `json:"badges"`
}

type submitPayload struct {
	ActivityID  string `json:"activityId"`
	Description string `json:"description"`
	MediaURL    string `json:"mediaUrl"`
	Points      int    `json:"points"`
}

// New builds the session service. The last-known-good snapshot, when present,
// seeds the in-memory stats so the UI has something to show before the first
// refresh completes.
func New(cfg Config) *Service {
	s := &Service{
		userID:    cfg.UserID,
		cat:       cfg.Catalog,
		badgeDefs: cfg.BadgeDefs,
		remote:    cfg.Remote,
		store:     cfg.Store,
		log:       cfg.Log,
		badges:    make(map[string]bool),
	}
	levels := cfg.Catalog.Levels()
	s.tierOrder = make([]string, len(levels))
	for i, l := range levels {
		s.tierOrder[i] = l.Tier
	}
	s.stats = models.UserStats{CurrentTier: cfg.Catalog.FirstTier().Tier}
	s.queue = queue.New(cfg.Store, cfg.Online, s.executeAction, cfg.OnDrop, cfg.Log)

	raw, ok, err := cfg.Store.Get(context.Background(), s.snapshotKey())
	if err != nil {
		cfg.Log.Warn().Err(err).Msg("stats snapshot unreadable, starting fresh")
		return s
	}
	if ok {
		var snap snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			cfg.Log.Warn().Err(err).Msg("stats snapshot corrupt, starting fresh")
			return s
		}
		s.stats = snap.Stats
		for _, id := range snap.Badges {
			s.badges[id] = true
		}
	}
	return s
}

// Queue exposes the offline queue for connectivity binding and inspection.
func (s *Service) Queue() *queue.Queue {
	return s.queue
}

// Snapshot returns a copy of the current stats.
func (s *Service) Snapshot() models.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Badges returns the granted badge ids in stable order.
func (s *Service) Badges() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.badges))
	for id := range s.badges {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Report derives the per-category progress view for the current stats.
func (s *Service) Report() progress.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progress.Describe(s.cat.Levels(), s.stats.CurrentTier, s.stats.Counts)
}

// ApplyOptimistic merges a local delta synchronously: bump the category count
// and points, advance at most one tier, grant newly qualifying badges. The
// next Refresh supersedes all of it.
func (s *Service) ApplyOptimistic(delta models.StatsDelta) (models.UserStats, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(delta)
}

func (s *Service) applyLocked(delta models.StatsDelta) (models.UserStats, []string) {
	if delta.Points > 0 {
		s.stats.Points += delta.Points
	}
	s.stats.Counts.Add(delta.Category, 1)
	s.stats.TotalActivities++

	if next, ok := progress.NextTier(s.cat.Levels(), s.stats.CurrentTier, s.stats.Counts); ok {
		s.log.Info().Str("from", s.stats.CurrentTier).Str("to", next.Tier).Msg("tier up")
		s.stats.CurrentTier = next.Tier
	}

	earned := s.grantBadgesLocked()
	s.persistLocked()
	return s.stats, earned
}

// Refresh rebuilds stats wholesale from the system of record. Concurrent
// callers share a single in-flight fetch and all receive its result. On
// failure the previous stats are retained untouched.
func (s *Service) Refresh(ctx context.Context) (models.UserStats, error) {
	v, err, _ := s.flight.Do("refresh", func() (any, error) {
		row, err := s.remote.FetchStats(ctx, s.userID)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindNotFound {
				// First session: no stats row yet, zero values are authoritative.
				row = remote.StatsRow{}
			} else {
				return models.UserStats{}, err
			}
		}

		fresh := models.UserStats{
			Points:          row.Points,
			StreakDays:      row.StreakDays,
			Counts:          row.Counts,
			TotalActivities: row.Counts.Total(),
			CurrentTier:     progress.DeriveTier(s.cat.Levels(), row.Counts),
		}

		s.mu.Lock()
		s.stats = fresh
		s.grantBadgesLocked()
		s.persistLocked()
		out := s.stats
		s.mu.Unlock()
		return out, nil
	})
	stats, _ := v.(models.UserStats)
	if err != nil {
		return s.Snapshot(), err
	}
	return stats, nil
}

// Result reports one activity completion back to the caller.
type Result struct {
	Stats     models.UserStats
	NewBadges []string
	Deferred  bool
}

// CompleteActivity validates against the catalog, applies the optimistic
// delta, and routes the submission through the offline queue. An immediate
// remote failure rolls the optimistic update back exactly; a deferred
// submission keeps it. Success triggers a background authoritative refresh.
func (s *Service) CompleteActivity(ctx context.Context, activityID, description, mediaURL string, mediaBytes int) (Result, error) {
	act, ok := s.cat.Activity(activityID)
	if !ok {
		return Result{Stats: s.Snapshot()}, apperrors.Validation("unknown activity: " + activityID)
	}
	if mediaBytes > remote.MaxMediaBytes {
		return Result{Stats: s.Snapshot()}, apperrors.Quota("media exceeds the 5 MB limit")
	}

	s.mu.Lock()
	prevStats := s.stats
	prevBadges := make(map[string]bool, len(s.badges))
	for id := range s.badges {
		prevBadges[id] = true
	}
	updated, newBadges := s.applyLocked(models.StatsDelta{Category: act.Category, Points: act.Points})
	s.mu.Unlock()

	outcome, err := s.queue.Enqueue(ctx, ActionSubmitActivity, submitPayload{
		ActivityID:  activityID,
		Description: description,
		MediaURL:    mediaURL,
		Points:      act.Points,
	})
	if err != nil && outcome == queue.OutcomeExecuted {
		// The remote rejected the submission outright; undo the optimism.
		s.mu.Lock()
		s.stats = prevStats
		s.badges = prevBadges
		s.persistLocked()
		s.mu.Unlock()
		return Result{Stats: prevStats}, err
	}

	if outcome == queue.OutcomeExecuted {
		go func() {
			if _, err := s.Refresh(context.Background()); err != nil {
				s.log.Warn().Err(err).Msg("post-submit refresh failed, keeping optimistic stats")
			}
		}()
	}

	return Result{Stats: updated, NewBadges: newBadges, Deferred: outcome == queue.OutcomeDeferred}, err
}

// Clear wipes the session state on logout.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.stats = models.UserStats{CurrentTier: s.cat.FirstTier().Tier}
	s.badges = make(map[string]bool)
	s.mu.Unlock()
	if err := s.store.Delete(ctx, s.snapshotKey()); err != nil {
		s.log.Warn().Err(err).Msg("failed to delete stats snapshot")
	}
}

// executeAction replays queued mutations: submit the activity, then apply the
// relative points increment.
func (s *Service) executeAction(ctx context.Context, action models.QueuedAction) error {
	switch action.Kind {
	case ActionSubmitActivity:
		var p submitPayload
		if err := json.Unmarshal(action.Payload, &p); err != nil {
			return apperrors.Validation("malformed queued submission: " + err.Error())
		}
		if _, err := s.remote.SubmitActivity(ctx, s.userID, p.ActivityID, p.Description, p.MediaURL); err != nil {
			// A retry may re-send a submission that already landed on an
			// attempt whose points increment then failed. The duplicate
			// means the submission is in; finish the increment.
			if action.AttemptCount == 0 || apperrors.KindOf(err) != apperrors.KindDuplicate {
				return err
			}
		}
		_, err := s.remote.AddPoints(ctx, s.userID, p.Points)
		return err
	default:
		return apperrors.Validation("unknown queued action kind: " + action.Kind)
	}
}

// grantBadgesLocked evaluates the badge table against the current stats and
// folds new grants into the set. Grants are append-only.
func (s *Service) grantBadgesLocked() []string {
	earned := badges.Evaluate(s.badgeDefs, badges.Input{
		Counts:          s.stats.Counts,
		Tier:            s.stats.CurrentTier,
		Ladder:          s.tierOrder,
		StreakDays:      s.stats.StreakDays,
		TotalActivities: s.stats.TotalActivities,
	}, s.badges)
	for _, id := range earned {
		s.badges[id] = true
	}
	return earned
}

func (s *Service) snapshotKey() string {
	return snapshotKeyPrefix + s.userID
}

// persistLocked writes the last-known-good snapshot. Failures degrade the
// cold-start experience, nothing else; they are logged and swallowed.
func (s *Service) persistLocked() {
	snap := snapshot{Stats: s.stats}
	for id := range s.badges {
		snap.Badges = append(snap.Badges, id)
	}
	sort.Strings(snap.Badges)
	raw, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode stats snapshot")
		return
	}
	if err := s.store.Set(context.Background(), s.snapshotKey(), raw); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist stats snapshot")
	}
}
