package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	act, ok := c.Activity("daily-compliment")
	assert.True(t, ok)
	assert.Equal(t, models.CategoryDaily, act.Category)
	assert.Equal(t, 5, act.Points)

	_, ok = c.Activity("no-such-activity")
	assert.False(t, ok)

	assert.NotEmpty(t, c.Activities(models.CategoryVolunteer))
	assert.Equal(t, "Member", c.FirstTier().Tier)
	assert.Equal(t, 0, c.TierIndex("Member"))
	assert.Equal(t, -1, c.TierIndex("Celebrity"))
}

func TestDefaultLadderChains(t *testing.T) {
	levels := Default().Levels()
	for i, l := range levels {
		if i == len(levels)-1 {
			assert.True(t, l.Terminal(), "last rung must chain to itself")
			continue
		}
		assert.Equal(t, levels[i+1].Tier, l.NextTier)
		assert.False(t, l.Terminal())
	}
}

func TestMemberThresholds(t *testing.T) {
	first := Default().FirstTier()
	assert.Equal(t, 2, first.DailyThreshold)
	assert.Equal(t, 4, first.EngagementThreshold)
	assert.Equal(t, 1, first.VolunteerThreshold)
	assert.Equal(t, 1, first.SupportThreshold)
}

func TestLoadFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
activities:
  - id: custom-act
    title: Custom Act
    category: DAILY
    points: 7
levels:
  - tier: Novice
    nextTier: Hero
    daily: 1
    engagement: 1
    volunteer: 1
    support: 1
  - tier: Hero
    nextTier: Hero
`
	assert.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := LoadFile(path)
	assert.NoError(t, err)

	act, ok := c.Activity("custom-act")
	assert.True(t, ok)
	assert.Equal(t, 7, act.Points)
	assert.Equal(t, "Novice", c.FirstTier().Tier)
	assert.Len(t, c.Levels(), 2)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBuildRejectsBrokenLadder(t *testing.T) {
	_, err := build(defaultActivities(), []models.LevelDefinition{
		{Tier: "Member", NextTier: "Friend"},
		{Tier: "Acquaintance", NextTier: "Acquaintance"},
	})
	assert.Error(t, err, "rungs must chain in order")

	_, err = build(defaultActivities(), []models.LevelDefinition{
		{Tier: "Member", NextTier: "Member"},
		{Tier: "Member", NextTier: "Member"},
	})
	assert.Error(t, err, "duplicate tiers rejected")

	_, err = build([]models.ActivityDefinition{{ID: "x", Category: "BOGUS", Points: 1}}, defaultLevels())
	assert.Error(t, err, "unknown category rejected")

	_, err = build([]models.ActivityDefinition{{ID: "x", Category: models.CategoryDaily, Points: 0}}, defaultLevels())
	assert.Error(t, err, "non-positive points rejected")
}
