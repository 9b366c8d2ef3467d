package models

import "time"

type BadgeCondition string

const (
	ConditionDailyCount      BadgeCondition = "daily_completed"
	ConditionEngagementCount BadgeCondition = "engagement_completed"
	ConditionVolunteerCount  BadgeCondition = "volunteer_completed"
	ConditionSupportCount    BadgeCondition = "support_completed"
	ConditionStreakDays      BadgeCondition = "streak_days"
	ConditionTotalActivities BadgeCondition = "total_activities"
	ConditionTierReached     BadgeCondition = "tier_reached"
)

// Badge is a static badge definition. Condition names the stat it watches,
// Threshold the value that unlocks it. Tier badges set Condition to
// tier_reached and Tier to the ladder rung they track.
type Badge struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Icon        string         `json:"icon"`
	Condition   BadgeCondition `json:"condition"`
	Threshold   int            `json:"threshold"`
	Tier        string         `json:"tier,omitempty"`
}

// UserBadge records a grant. Grants are append-only; a badge is never revoked.
type UserBadge struct {
	UserID     string    `gorm:"primaryKey;type:text" json:"userId"`
	BadgeID    string    `gorm:"primaryKey;type:text" json:"badgeId"`
	UnlockedAt time.Time `json:"unlockedAt"`
}
