package models

// LevelDefinition is one rung of the progression ladder. Its thresholds are
// the per-category completion counts required to advance from Tier to
// NextTier. The terminal rung points NextTier at itself.
type LevelDefinition struct {
	Tier                string `yaml:"tier" json:"tier"`
	NextTier            string `yaml:"nextTier" json:"nextTier"`
	DailyThreshold      int    `yaml:"daily" json:"daily"`
	EngagementThreshold int    `yaml:"engagement" json:"engagement"`
	VolunteerThreshold  int    `yaml:"volunteer" json:"volunteer"`
	SupportThreshold    int    `yaml:"support" json:"support"`
	Reward              string `yaml:"reward" json:"reward"`
}

// Terminal reports whether this is the maximum tier.
func (l LevelDefinition) Terminal() bool {
	return l.NextTier == l.Tier
}

// Threshold returns the advancement requirement for one category.
func (l LevelDefinition) Threshold(c Category) int {
	switch c {
	case CategoryDaily:
		return l.DailyThreshold
	case CategoryEngagement:
		return l.EngagementThreshold
	case CategoryVolunteer:
		return l.VolunteerThreshold
	case CategorySupport:
		return l.SupportThreshold
	}
	return 0
}
