// Package badges decides which badges a stats snapshot has newly earned.
// The evaluator is pure: it never stores grants, it only reports the delta
// against the badge set the caller already holds.
package badges

import (
	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

// Input is everything the rule table can see. Ladder holds the ordered tier
// names, entry rung first; tier badges compare positions on it.
type Input struct {
	Counts          models.CategoryCounts
	Tier            string
	Ladder          []string
	StreakDays      int
	TotalActivities int
}

func tierRank(ladder []string, tier string) int {
	for i, t := range ladder {
		if t == tier {
			return i
		}
	}
	return -1
}

// statFor resolves a condition against the snapshot. Tier badges are handled
// separately since they match on a name, not a number.
func statFor(in Input, cond models.BadgeCondition) (int, bool) {
	switch cond {
	case models.ConditionDailyCount:
		return in.Counts.Daily, true
	case models.ConditionEngagementCount:
		return in.Counts.Engagement, true
	case models.ConditionVolunteerCount:
		return in.Counts.Volunteer, true
	case models.ConditionSupportCount:
		return in.Counts.Support, true
	case models.ConditionStreakDays:
		return in.StreakDays, true
	case models.ConditionTotalActivities:
		return in.TotalActivities, true
	}
	return 0, false
}

// Evaluate returns the ids of badges the snapshot qualifies for that are not
// already in existing. Calling it again with the grants applied yields an
// empty delta; a badge once granted is never returned for removal.
func Evaluate(defs []models.Badge, in Input, existing map[string]bool) []string {
	var earned []string
	for _, b := range defs {
		if existing[b.ID] {
			continue
		}
		if b.Condition == models.ConditionTierReached {
			// A wholesale refresh can land several rungs above the last
			// known tier; every rung at or below the current one counts
			// as reached, so no tier badge is skipped on the way.
			rank := tierRank(in.Ladder, in.Tier)
			if r := tierRank(in.Ladder, b.Tier); r >= 0 && rank >= 0 && r <= rank {
				earned = append(earned, b.ID)
			}
			continue
		}
		stat, ok := statFor(in, b.Condition)
		if !ok {
			continue
		}
		if stat >= b.Threshold {
			earned = append(earned, b.ID)
		}
	}
	return earned
}
