// Package progress derives tier and progress-percentage state from raw
// completion counts. Everything here is pure; callers own all state.
package progress

import (
	"math"

	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

// Percent is the progress toward one threshold, rounded and clamped to
// [0, 100]. A zero threshold means nothing is required and reports 0.
func Percent(completed, threshold int) int {
	if threshold == 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(threshold) * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// meets reports whether counts satisfy all four thresholds of a rung.
func meets(counts models.CategoryCounts, l models.LevelDefinition) bool {
	for _, cat := range models.Categories {
		if counts.Get(cat) < l.Threshold(cat) {
			return false
		}
	}
	return true
}

// NextTier evaluates single-step advancement from the current tier: it checks
// only the current rung's thresholds and, when they are met, yields the next
// rung. A user whose counts would satisfy two rungs advances one tier per
// evaluation. Unknown tiers and the terminal tier yield no advancement.
func NextTier(levels []models.LevelDefinition, current string, counts models.CategoryCounts) (models.LevelDefinition, bool) {
	for i, l := range levels {
		if l.Tier != current {
			continue
		}
		if l.Terminal() || !meets(counts, l) {
			return models.LevelDefinition{}, false
		}
		return levels[i+1], true
	}
	return models.LevelDefinition{}, false
}

// DeriveTier walks the ladder from the entry rung and returns the tier an
// authoritative set of counts lands on. Used when rebuilding state wholesale
// from the system of record, where advancement history is not replayed
// rung by rung.
func DeriveTier(levels []models.LevelDefinition, counts models.CategoryCounts) string {
	if len(levels) == 0 {
		return ""
	}
	tier := levels[0].Tier
	for _, l := range levels {
		if l.Terminal() || !meets(counts, l) {
			break
		}
		tier = l.NextTier
	}
	return tier
}

// CategoryProgress is the percentage toward the current rung's threshold for
// one category.
type CategoryProgress struct {
	Category  models.Category `json:"category"`
	Completed int             `json:"completed"`
	Threshold int             `json:"threshold"`
	Percent   int             `json:"percent"`
}

// Report is the derived progression view for one stats snapshot.
type Report struct {
	Tier       string             `json:"tier"`
	NextTier   string             `json:"nextTier"`
	Reward     string             `json:"reward"`
	Terminal   bool               `json:"terminal"`
	Categories []CategoryProgress `json:"categories"`
}

// Describe builds the per-category progress report for the current tier.
// An unknown tier yields a zero Report rather than an error.
func Describe(levels []models.LevelDefinition, current string, counts models.CategoryCounts) Report {
	for _, l := range levels {
		if l.Tier != current {
			continue
		}
		r := Report{
			Tier:     l.Tier,
			NextTier: l.NextTier,
			Reward:   l.Reward,
			Terminal: l.Terminal(),
		}
		for _, cat := range models.Categories {
			r.Categories = append(r.Categories, CategoryProgress{
				Category:  cat,
				Completed: counts.Get(cat),
				Threshold: l.Threshold(cat),
				Percent:   Percent(counts.Get(cat), l.Threshold(cat)),
			})
		}
		return r
	}
	return Report{}
}
