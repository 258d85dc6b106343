// models/streak.go
package models

import (
	"github.com/shopspring/decimal"
)

// StreakMilestone: a streak length that pays a one-time bonus and
// unlocks an achievement when hit exactly.
type StreakMilestone struct {
	Days            int             `json:"days"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	BonusReward     decimal.Decimal `json:"bonus_reward"`
	AchievementType string          `json:"achievement_type"`
}

// StreakConfig is the immutable reward policy for daily claims.
// It is passed explicitly into the streak helpers — nothing in the core
// reads a global.
type StreakConfig struct {
	// BaseReward is the UselessBucks paid per claim before multipliers.
	BaseReward decimal.Decimal

	// Multipliers maps a streak threshold to the multiplier applied from
	// that day on. The highest threshold <= streak wins.
	Multipliers map[int]float64

	// MaxStreak caps the derivable streak (and bounds the ledger query).
	MaxStreak int

	// Milestones, ascending by Days.
	Milestones []StreakMilestone
}

// MilestoneForDay returns the milestone hit exactly at the given streak
// length, or nil.
func (c StreakConfig) MilestoneForDay(days int) *StreakMilestone {
	for i := range c.Milestones {
		if c.Milestones[i].Days == days {
			return &c.Milestones[i]
		}
	}
	return nil
}

// MilestoneForType looks a milestone up by its achievement tag.
func (c StreakConfig) MilestoneForType(achievementType string) *StreakMilestone {
	for i := range c.Milestones {
		if c.Milestones[i].AchievementType == achievementType {
			return &c.Milestones[i]
		}
	}
	return nil
}

// DefaultStreakConfig mirrors the storefront's production policy:
// 10 UselessBucks base, multipliers from day 3, a one-year cap.
var DefaultStreakConfig = StreakConfig{
	BaseReward: decimal.NewFromInt(10),
	Multipliers: map[int]float64{
		3:   1.5,
		7:   2,
		14:  2.5,
		30:  3,
		60:  4,
		100: 5,
	},
	MaxStreak: 365,
	Milestones: []StreakMilestone{
		{Days: 7, Name: "Week Warrior", Description: "You've wasted a whole week!", BonusReward: decimal.NewFromInt(50), AchievementType: "streak_7"},
		{Days: 30, Name: "Monthly Menace", Description: "A month of mayhem", BonusReward: decimal.NewFromInt(200), AchievementType: "streak_30"},
		{Days: 60, Name: "Bi-Monthly Beast", Description: "Two months of dedication to nothing", BonusReward: decimal.NewFromInt(500), AchievementType: "streak_60"},
		{Days: 100, Name: "Centurion of Chaos", Description: "100 days. No turning back.", BonusReward: decimal.NewFromInt(1000), AchievementType: "streak_100"},
		{Days: 365, Name: "Annual Anomaly", Description: "A full year?! Touch grass.", BonusReward: decimal.NewFromInt(5000), AchievementType: "streak_365"},
	},
}

// Day-specific claim messages. Days without an entry fall back to the
// rotating list below.
var streakMessages = map[int]string{
	1:   "Showing up is half the battle. The other half is spending money.",
	2:   "Back for more? Your dedication to uselessness is admirable.",
	3:   "Three days! You're building habits. Bad ones, but habits nonetheless.",
	4:   "Four days of commitment. Your future therapist will hear about this.",
	5:   "Five days! Almost a work week of pure nonsense.",
	6:   "Six days strong. Tomorrow is the big one!",
	7:   "A week of dedication! Your wallet weeps.",
	14:  "Two weeks! You could have learned a new skill. Instead, you're here.",
	21:  "Three weeks! Science says habits form in 21 days. You're officially addicted.",
	30:  "30 days?! You might have a problem. Here's more fake money.",
	45:  "45 days. Your commitment to nothing is genuinely impressive.",
	60:  "Two months! You've outlasted most New Year's resolutions.",
	75:  "75 days! You're three-quarters of the way to absolute madness.",
	90:  "90 days! A full quarter of the year spent clicking a button.",
	100: "100 days. You're officially obsessed. Seek help. But first, here's a bonus.",
	150: "150 days! You've spent almost half a year doing this. Incredible.",
	200: "200 days! Your persistence is both impressive and concerning.",
	250: "250 days! You can see the finish line. It's just as meaningless as the start.",
	300: "300 days! 65 more days until you've achieved absolutely nothing for a year.",
	365: "365 DAYS! A FULL YEAR! You've peaked. It's all downhill from here. Touch grass.",
}

var fallbackMessages = []string{
	"Another day, another fake dollar. Living the dream!",
	"You came back! The void acknowledges your presence.",
	"Consistency is key. Key to what? Who knows!",
	"Your streak grows stronger. Your bank account? Not so much.",
	"The UselessBucks flow through you. Feel their worthlessness.",
	"Impressive! Your commitment to meaninglessness is unmatched.",
	"Day after day, you return. The algorithm is pleased.",
	"Your streak is your legacy. A legacy of clicking buttons.",
	"The more you claim, the more meaningless it becomes. Keep going!",
	"You're not just a user. You're a streak machine.",
}

// StreakMessageForDay picks the claim message for a streak day.
// Fallbacks rotate by day so the choice stays deterministic.
func StreakMessageForDay(day int) string {
	if msg, ok := streakMessages[day]; ok {
		return msg
	}
	if day < 0 {
		day = 0
	}
	return fallbackMessages[day%len(fallbackMessages)]
}
