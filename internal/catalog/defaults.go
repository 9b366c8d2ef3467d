package catalog

import "github.com/vikkirkobane/karma-club-sub000/internal/models"

func defaultActivities() []models.ActivityDefinition {
	return []models.ActivityDefinition{
		// Daily acts
		{ID: "daily-compliment", Title: "Compliment a Stranger", Category: models.CategoryDaily, Points: 5},
		{ID: "daily-door", Title: "Hold the Door Open", Category: models.CategoryDaily, Points: 5},
		{ID: "daily-note", Title: "Leave a Kind Note", Category: models.CategoryDaily, Points: 5},
		{ID: "daily-checkin", Title: "Check In on a Friend", Category: models.CategoryDaily, Points: 5},
		{ID: "daily-litter", Title: "Pick Up Litter", Category: models.CategoryDaily, Points: 5},
		{ID: "daily-gratitude", Title: "Thank Someone Who Helped You", Category: models.CategoryDaily, Points: 5},

		// Engagement
		{ID: "engage-share-story", Title: "Share Your Kindness Story", Category: models.CategoryEngagement, Points: 10},
		{ID: "engage-encourage", Title: "Encourage Another Member", Category: models.CategoryEngagement, Points: 10},
		{ID: "engage-invite", Title: "Invite a Friend to Join", Category: models.CategoryEngagement, Points: 15},
		{ID: "engage-spotlight", Title: "Spotlight Someone's Good Deed", Category: models.CategoryEngagement, Points: 10},

		// Volunteering
		{ID: "volunteer-shelter", Title: "Volunteer at a Shelter", Category: models.CategoryVolunteer, Points: 25},
		{ID: "volunteer-cleanup", Title: "Join a Community Cleanup", Category: models.CategoryVolunteer, Points: 25},
		{ID: "volunteer-foodbank", Title: "Help at a Food Bank", Category: models.CategoryVolunteer, Points: 25},

		// Support
		{ID: "support-donate", Title: "Donate to a Cause", Category: models.CategorySupport, Points: 20},
		{ID: "support-fundraise", Title: "Organize a Fundraiser", Category: models.CategorySupport, Points: 30},
		{ID: "support-drive", Title: "Run a Donation Drive", Category: models.CategorySupport, Points: 30},
	}
}

// The ladder is ordered; each rung's thresholds are the completions required
// to advance to the next rung. Angel is terminal.
func defaultLevels() []models.LevelDefinition {
	return []models.LevelDefinition{
		{Tier: "Member", NextTier: "Acquaintance", DailyThreshold: 2, EngagementThreshold: 4, VolunteerThreshold: 1, SupportThreshold: 1, Reward: "Starter badge pack"},
		{Tier: "Acquaintance", NextTier: "Friend", DailyThreshold: 4, EngagementThreshold: 8, VolunteerThreshold: 2, SupportThreshold: 2, Reward: "Profile flair"},
		{Tier: "Friend", NextTier: "Companion", DailyThreshold: 8, EngagementThreshold: 15, VolunteerThreshold: 4, SupportThreshold: 4, Reward: "Custom avatar frame"},
		{Tier: "Companion", NextTier: "Supporter", DailyThreshold: 15, EngagementThreshold: 25, VolunteerThreshold: 8, SupportThreshold: 8, Reward: "Community shout-out"},
		{Tier: "Supporter", NextTier: "Guardian", DailyThreshold: 25, EngagementThreshold: 40, VolunteerThreshold: 12, SupportThreshold: 12, Reward: "Supporter trophy"},
		{Tier: "Guardian", NextTier: "Champion", DailyThreshold: 40, EngagementThreshold: 60, VolunteerThreshold: 20, SupportThreshold: 20, Reward: "Guardian trophy"},
		{Tier: "Champion", NextTier: "Angel", DailyThreshold: 60, EngagementThreshold: 90, VolunteerThreshold: 30, SupportThreshold: 30, Reward: "Champion trophy"},
		{Tier: "Angel", NextTier: "Angel", Reward: "Angel wings"},
	}
}
