package models

// CategoryCounts holds approved completion counts per activity category.
type CategoryCounts struct {
	Daily      int `json:"daily"`
	Engagement int `json:"engagement"`
	Volunteer  int `json:"volunteer"`
	Support    int `json:"support"`
}

func (c CategoryCounts) Get(cat Category) int {
	switch cat {
	case CategoryDaily:
		return c.Daily
	case CategoryEngagement:
		return c.Engagement
	case CategoryVolunteer:
		return c.Volunteer
	case CategorySupport:
		return c.Support
	}
	return 0
}

func (c *CategoryCounts) Add(cat Category, n int) {
	switch cat {
	case CategoryDaily:
		c.Daily += n
	case CategoryEngagement:
		c.Engagement += n
	case CategoryVolunteer:
		c.Volunteer += n
	case CategorySupport:
		c.Support += n
	}
}

func (c CategoryCounts) Total() int {
	return c.Daily + c.Engagement + c.Volunteer + c.Support
}

// UserStats is the single in-memory progression record for the session user.
// It mirrors the remote system of record and a persisted last-known-good
// snapshot. CurrentTier always satisfies the ladder thresholds except in the
// window between an optimistic update and the next refresh.
type UserStats struct {
	Points          int            `json:"points"`
	CurrentTier     string         `json:"currentTier"`
	TotalActivities int            `json:"totalActivities"`
	StreakDays      int            `json:"streakDays"`
	Counts          CategoryCounts `json:"counts"`
}

// StatsDelta is an optimistic local mutation: one completed activity in a
// category plus its point value. Points are always non-negative; there is no
// deduction path in this subsystem.
type StatsDelta struct {
	Category Category `json:"category"`
	Points   int      `json:"points"`
}
