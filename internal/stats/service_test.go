package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/vikkirkobane/karma-club-sub000/pkg/errors"

	"github.com/vikkirkobane/karma-club-sub000/internal/badges"
	"github.com/vikkirkobane/karma-club-sub000/internal/cache"
	"github.com/vikkirkobane/karma-club-sub000/internal/catalog"
	"github.com/vikkirkobane/karma-club-sub000/internal/models"
	"github.com/vikkirkobane/karma-club-sub000/internal/progress"
	"github.com/vikkirkobane/karma-club-sub000/internal/remote"
)

type fakeRemote struct {
	mu         sync.Mutex
	row        remote.StatsRow
	fetchErr   error
	submitErr  error
	fetchCalls int
	addCalls   int

	// When set, FetchStats blocks until the gate closes, after signalling
	// entry exactly once.
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeRemote) FetchStats(_ context.Context, _ string) (remote.StatsRow, error) {
	f.mu.Lock()
	f.fetchCalls++
	gate, entered := f.gate, f.entered
	f.entered = nil
	f.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.row, f.fetchErr
}

func (f *fakeRemote) SubmitActivity(_ context.Context, _, activityID, _, _ string) (remote.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return remote.Submission{}, f.submitErr
	}
	return remote.Submission{ID: "sub-1", ActivityID: activityID, Status: "APPROVED"}, nil
}

func (f *fakeRemote) AddPoints(_ context.Context, _ string, _ int) (remote.Totals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	return remote.Totals{Points: f.row.Points}, nil
}

func (f *fakeRemote) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func newService(t *testing.T, fr *fakeRemote, store cache.Store, online bool) *Service {
	t.Helper()
	if store == nil {
		store = cache.NewMemory()
	}
	return New(Config{
		UserID:    "user-1",
		Catalog:   catalog.Default(),
		BadgeDefs: badges.Defaults(),
		Remote:    fr,
		Store:     store,
		Online:    func() bool { return online },
		Log:       zerolog.Nop(),
	})
}

func TestRefreshIdempotent(t *testing.T) {
	fr := &fakeRemote{row: remote.StatsRow{
		Points:     35,
		StreakDays: 2,
		Counts:     models.CategoryCounts{Daily: 2, Engagement: 4, Volunteer: 1, Support: 1},
	}}
	svc := newService(t, fr, nil, true)

	first, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	second, err := svc.Refresh(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, first, second, "back-to-back refreshes with no mutation agree")
	assert.Equal(t, "Acquaintance", first.CurrentTier)
	assert.Equal(t, 8, first.TotalActivities)
}

func TestRefreshCoalesced(t *testing.T) {
	fr := &fakeRemote{
		row:     remote.StatsRow{Points: 10},
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	svc := newService(t, fr, nil, true)

	var wg sync.WaitGroup
	results := make([]models.UserStats, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.Refresh(context.Background())
	}()
	<-fr.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = svc.Refresh(context.Background())
	}()
	// Let the second caller reach the in-flight refresh before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(fr.gate)
	wg.Wait()

	assert.Equal(t, 1, fr.fetches(), "concurrent refreshes share one network round-trip")
	assert.Equal(t, results[0], results[1])
}

func TestRefreshFailureRetainsStats(t *testing.T) {
	fr := &fakeRemote{row: remote.StatsRow{Points: 20, Counts: models.CategoryCounts{Daily: 1}}}
	svc := newService(t, fr, nil, true)

	good, err := svc.Refresh(context.Background())
	assert.NoError(t, err)

	fr.mu.Lock()
	fr.fetchErr = apperrors.Transient("backend down", nil)
	fr.mu.Unlock()

	got, err := svc.Refresh(context.Background())
	assert.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.Equal(t, good, got, "failed refresh retains previous stats, no partial merge")
	assert.Equal(t, good, svc.Snapshot())
}

func TestRefreshNotFoundMeansZeroStats(t *testing.T) {
	fr := &fakeRemote{fetchErr: apperrors.NotFound("no stats row")}
	svc := newService(t, fr, nil, true)

	got, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Member", got.CurrentTier)
	assert.Zero(t, got.Points)
}

func TestApplyOptimistic(t *testing.T) {
	svc := newService(t, &fakeRemote{}, nil, true)

	updated, earned := svc.ApplyOptimistic(models.StatsDelta{Category: models.CategoryDaily, Points: 5})
	assert.Equal(t, 5, updated.Points)
	assert.Equal(t, 1, updated.Counts.Daily)
	assert.Equal(t, 1, updated.TotalActivities)
	assert.Equal(t, "Member", updated.CurrentTier)
	assert.Contains(t, earned, "first-act")
}

func TestApplyOptimisticTierUp(t *testing.T) {
	svc := newService(t, &fakeRemote{}, nil, true)

	deltas := []models.StatsDelta{
		{Category: models.CategoryDaily, Points: 5},
		{Category: models.CategoryDaily, Points: 5},
		{Category: models.CategoryEngagement, Points: 10},
		{Category: models.CategoryEngagement, Points: 10},
		{Category: models.CategoryEngagement, Points: 10},
		{Category: models.CategoryEngagement, Points: 10},
		{Category: models.CategoryVolunteer, Points: 25},
	}
	for _, d := range deltas {
		svc.ApplyOptimistic(d)
	}
	assert.Equal(t, "Member", svc.Snapshot().CurrentTier, "one category still short")

	updated, earned := svc.ApplyOptimistic(models.StatsDelta{Category: models.CategorySupport, Points: 20})
	assert.Equal(t, "Acquaintance", updated.CurrentTier)
	assert.Contains(t, earned, "tier-Acquaintance")
}

func TestRefreshSupersedesOptimistic(t *testing.T) {
	authoritative := remote.StatsRow{
		Points: 40,
		Counts: models.CategoryCounts{Daily: 3, Engagement: 2},
	}
	fr := &fakeRemote{
		row:     authoritative,
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	svc := newService(t, fr, nil, true)

	done := make(chan models.UserStats, 1)
	go func() {
		got, _ := svc.Refresh(context.Background())
		done <- got
	}()
	<-fr.entered

	// The optimistic update lands while the refresh round-trip is in flight;
	// the refresh started earlier but completes later, and must still win.
	svc.ApplyOptimistic(models.StatsDelta{Category: models.CategoryDaily, Points: 5})
	close(fr.gate)
	got := <-done

	assert.Equal(t, authoritative.Points, got.Points)
	assert.Equal(t, authoritative.Counts, got.Counts)
	assert.Equal(t, got, svc.Snapshot(), "refresh replaces optimistic state wholesale")
}

func TestPointsMonotonic(t *testing.T) {
	fr := &fakeRemote{row: remote.StatsRow{Points: 100, Counts: models.CategoryCounts{Daily: 10, Engagement: 5, Volunteer: 2, Support: 3}}}
	svc := newService(t, fr, nil, true)

	last := svc.Snapshot().Points
	check := func(p int) {
		assert.GreaterOrEqual(t, p, last, "points never decrease")
		last = p
	}

	for i := 0; i < 5; i++ {
		updated, _ := svc.ApplyOptimistic(models.StatsDelta{Category: models.CategoryDaily, Points: 5})
		check(updated.Points)
	}
	for i := 0; i < 3; i++ {
		got, err := svc.Refresh(context.Background())
		assert.NoError(t, err)
		check(got.Points)
	}
}

func TestTierConsistentAfterRefresh(t *testing.T) {
	fr := &fakeRemote{row: remote.StatsRow{Counts: models.CategoryCounts{Daily: 4, Engagement: 8, Volunteer: 2, Support: 2}}}
	svc := newService(t, fr, nil, true)

	got, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	derived := progress.DeriveTier(catalog.Default().Levels(), got.Counts)
	assert.Equal(t, derived, got.CurrentTier)
	assert.Equal(t, "Friend", got.CurrentTier)
}

func TestRefreshGrantsSkippedTierBadges(t *testing.T) {
	// A refresh landing two rungs above the starting tier still grants the
	// badge for the rung passed through.
	fr := &fakeRemote{row: remote.StatsRow{Counts: models.CategoryCounts{Daily: 4, Engagement: 8, Volunteer: 2, Support: 2}}}
	svc := newService(t, fr, nil, true)

	got, err := svc.Refresh(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Friend", got.CurrentTier)

	earned := svc.Badges()
	assert.Contains(t, earned, "tier-Acquaintance")
	assert.Contains(t, earned, "tier-Friend")
}

func TestCompleteActivityUnknownID(t *testing.T) {
	svc := newService(t, &fakeRemote{}, nil, true)
	before := svc.Snapshot()

	_, err := svc.CompleteActivity(context.Background(), "no-such-act", "did a thing", "", 0)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, before, svc.Snapshot())
}

func TestCompleteActivityOversizedMedia(t *testing.T) {
	svc := newService(t, &fakeRemote{}, nil, true)

	_, err := svc.CompleteActivity(context.Background(), "daily-compliment", "", "photo.jpg", remote.MaxMediaBytes+1)
	assert.Equal(t, apperrors.KindQuota, apperrors.KindOf(err))
}

func TestCompleteActivityDuplicateRollsBack(t *testing.T) {
	fr := &fakeRemote{submitErr: apperrors.Duplicate("already submitted")}
	svc := newService(t, fr, nil, true)
	before := svc.Snapshot()
	beforeBadges := svc.Badges()

	res, err := svc.CompleteActivity(context.Background(), "daily-compliment", "again", "", 0)
	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(err))
	assert.Equal(t, before, res.Stats, "optimistic update rolled back exactly")
	assert.Equal(t, before, svc.Snapshot())
	assert.Equal(t, beforeBadges, svc.Badges(), "optimistic badge grants rolled back too")
}

func TestCompleteActivityOfflineDefers(t *testing.T) {
	fr := &fakeRemote{}
	svc := newService(t, fr, nil, false)

	res, err := svc.CompleteActivity(context.Background(), "daily-compliment", "held a door", "", 0)
	assert.NoError(t, err)
	assert.True(t, res.Deferred)
	assert.Equal(t, 5, res.Stats.Points, "optimistic update kept while deferred")
	assert.Equal(t, 1, svc.Queue().Len())
	assert.Equal(t, 0, fr.fetches(), "no refresh until the submission lands")
}

func TestCompleteActivityOnline(t *testing.T) {
	fr := &fakeRemote{row: remote.StatsRow{Points: 5, Counts: models.CategoryCounts{Daily: 1}}}
	svc := newService(t, fr, nil, true)

	res, err := svc.CompleteActivity(context.Background(), "daily-compliment", "complimented a barista", "", 0)
	assert.NoError(t, err)
	assert.False(t, res.Deferred)
	assert.Equal(t, 5, res.Stats.Points)

	// The background refresh settles on the authoritative row.
	assert.Eventually(t, func() bool {
		st := svc.Snapshot()
		return st.Points == 5 && st.Counts.Daily == 1 && fr.fetches() > 0
	}, 2*time.Second, 10*time.Millisecond)
}

// replayRemote lands the first submission but fails its points increment,
// then answers every later submission with a duplicate.
type replayRemote struct {
	mu      sync.Mutex
	submits int
	adds    int
}

func (r *replayRemote) FetchStats(context.Context, string) (remote.StatsRow, error) {
	return remote.StatsRow{}, nil
}

func (r *replayRemote) SubmitActivity(_ context.Context, _, activityID, _, _ string) (remote.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submits++
	if r.submits > 1 {
		return remote.Submission{}, apperrors.Duplicate("already submitted for this activity")
	}
	return remote.Submission{ID: "sub-1", ActivityID: activityID, Status: "APPROVED"}, nil
}

func (r *replayRemote) AddPoints(context.Context, string, int) (remote.Totals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adds++
	if r.adds == 1 {
		return remote.Totals{}, apperrors.Transient("points write failed", nil)
	}
	return remote.Totals{Points: 5}, nil
}

func (r *replayRemote) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submits, r.adds
}

func TestReplayFinishesPointsAfterPartialFailure(t *testing.T) {
	fr := &replayRemote{}
	var mu sync.Mutex
	online := false
	dropped := 0
	svc := New(Config{
		UserID:    "user-1",
		Catalog:   catalog.Default(),
		BadgeDefs: badges.Defaults(),
		Remote:    fr,
		Store:     cache.NewMemory(),
		Online: func() bool {
			mu.Lock()
			defer mu.Unlock()
			return online
		},
		OnDrop: func(models.QueuedAction, error) {
			mu.Lock()
			dropped++
			mu.Unlock()
		},
		Log: zerolog.Nop(),
	})

	res, err := svc.CompleteActivity(context.Background(), "daily-compliment", "queued while offline", "", 0)
	assert.NoError(t, err)
	assert.True(t, res.Deferred)

	mu.Lock()
	online = true
	mu.Unlock()

	// First replay lands the submission but loses the points increment.
	assert.NoError(t, svc.Queue().ProcessQueue(context.Background()))
	assert.Equal(t, 1, svc.Queue().Len())

	// The retry gets a duplicate back, recognizes the submission already
	// landed, and still applies the points.
	assert.NoError(t, svc.Queue().ProcessQueue(context.Background()))
	assert.Equal(t, 0, svc.Queue().Len())

	submits, adds := fr.counts()
	assert.Equal(t, 2, submits)
	assert.Equal(t, 2, adds, "the points increment is retried to completion")
	mu.Lock()
	assert.Equal(t, 0, dropped, "nothing was dropped on the way")
	mu.Unlock()
}

func TestColdStartFromSnapshot(t *testing.T) {
	store := cache.NewMemory()
	fr := &fakeRemote{}

	svc1 := newService(t, fr, store, true)
	svc1.ApplyOptimistic(models.StatsDelta{Category: models.CategoryVolunteer, Points: 25})
	want := svc1.Snapshot()

	svc2 := newService(t, fr, store, true)
	assert.Equal(t, want, svc2.Snapshot(), "last-known-good snapshot shows before the first refresh")
	assert.Equal(t, svc1.Badges(), svc2.Badges())
	assert.Equal(t, 0, fr.fetches())
}

func TestClear(t *testing.T) {
	store := cache.NewMemory()
	svc := newService(t, &fakeRemote{}, store, true)
	svc.ApplyOptimistic(models.StatsDelta{Category: models.CategoryDaily, Points: 5})

	svc.Clear(context.Background())
	assert.Zero(t, svc.Snapshot().Points)
	assert.Equal(t, "Member", svc.Snapshot().CurrentTier)
	assert.Empty(t, svc.Badges())

	fresh := newService(t, &fakeRemote{}, store, true)
	assert.Zero(t, fresh.Snapshot().Points, "snapshot removed on logout")
}
