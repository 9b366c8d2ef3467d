package badges

import "github.com/vikkirkobane/karma-club-sub000/internal/models"

// Defaults is the built-in badge table: category-count milestones, streak
// milestones, total-activity milestones, and one badge per ladder tier.
func Defaults() []models.Badge {
	defs := []models.Badge{
		{ID: "first-act", Name: "First Act", Description: "Completed your first act of kindness.", Icon: "heart", Condition: models.ConditionTotalActivities, Threshold: 1},
		{ID: "ten-acts", Name: "Kindness Regular", Description: "Completed 10 acts of kindness.", Icon: "sparkles", Condition: models.ConditionTotalActivities, Threshold: 10},
		{ID: "fifty-acts", Name: "Kindness Machine", Description: "Completed 50 acts of kindness.", Icon: "zap", Condition: models.ConditionTotalActivities, Threshold: 50},

		{ID: "daily-five", Name: "Everyday Kindness", Description: "Completed 5 daily acts.", Icon: "sun", Condition: models.ConditionDailyCount, Threshold: 5},
		{ID: "daily-twenty", Name: "Daily Devotee", Description: "Completed 20 daily acts.", Icon: "sunrise", Condition: models.ConditionDailyCount, Threshold: 20},
		{ID: "engage-five", Name: "Community Voice", Description: "Completed 5 engagement activities.", Icon: "megaphone", Condition: models.ConditionEngagementCount, Threshold: 5},
		{ID: "volunteer-five", Name: "Helping Hands", Description: "Volunteered 5 times.", Icon: "hand-heart", Condition: models.ConditionVolunteerCount, Threshold: 5},
		{ID: "support-five", Name: "Generous Heart", Description: "Supported 5 causes.", Icon: "gift", Condition: models.ConditionSupportCount, Threshold: 5},

		{ID: "streak-three", Name: "Warming Up", Description: "Kept a 3-day kindness streak.", Icon: "flame", Condition: models.ConditionStreakDays, Threshold: 3},
		{ID: "streak-seven", Name: "One Good Week", Description: "Kept a 7-day kindness streak.", Icon: "calendar-heart", Condition: models.ConditionStreakDays, Threshold: 7},
		{ID: "streak-thirty", Name: "Kindness Habit", Description: "Kept a 30-day kindness streak.", Icon: "trophy", Condition: models.ConditionStreakDays, Threshold: 30},
	}

	tiers := []string{"Acquaintance", "Friend", "Companion", "Supporter", "Guardian", "Champion", "Angel"}
	for _, t := range tiers {
		defs = append(defs, models.Badge{
			ID:          "tier-" + t,
			Name:        t + " Tier",
			Description: "Reached the " + t + " tier.",
			Icon:        "award",
			Condition:   models.ConditionTierReached,
			Tier:        t,
		})
	}
	return defs
}
