// services/streak.go
package services

import (
	"fmt"
	"time"

	"github.com/GGPrompts/useless-wallet-service/models"

	"github.com/shopspring/decimal"
)

// Day boundaries are UTC calendar days throughout this file. Claim
// timestamps are normalized to UTC midnight before any comparison, so
// "today" means the same thing for every caller regardless of client
// timezone.

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(later, earlier time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}

// CalculateStreak derives the consecutive-day claim streak from claim
// timestamps ordered newest-first. There is no stored counter: the
// ledger is the only input.
//
// Walk rules:
//   - most recent claim older than yesterday → streak is broken, 0
//   - a claim on the day before the previous counted one extends the
//     streak
//   - a second claim on an already-counted day (double page load) is
//     skipped
//   - anything older than expected ends the walk
func CalculateStreak(cfg models.StreakConfig, claims []time.Time, now time.Time) int {
	if len(claims) == 0 {
		return 0
	}

	streak := 0
	prevDay := time.Time{}
	expected := startOfDayUTC(now)

	for _, claim := range claims {
		day := startOfDayUTC(claim)

		if streak == 0 {
			// First claim counts only if it was today or yesterday.
			if daysBetween(expected, day) > 1 {
				return 0
			}
			streak = 1
			prevDay = day
			expected = day.AddDate(0, 0, -1)
			continue
		}

		if day.Equal(prevDay) {
			continue
		}
		if day.Equal(expected) {
			streak++
			prevDay = day
			expected = day.AddDate(0, 0, -1)
			continue
		}
		// Gap — stop counting.
		break
	}

	return min(streak, cfg.MaxStreak)
}

// StreakStatus describes claim eligibility at a point in time.
type StreakStatus struct {
	CurrentStreak   int
	CanClaim        bool
	NextClaimAt     *time.Time // nil when claimable now
	HoursUntilReset float64    // hours left before the streak breaks
}

// EvaluateStreakStatus applies the one-claim-per-UTC-day rule.
// A claim is allowed iff lastClaimAt is nil or on a day strictly before
// today; the streak survives until the end of the day after the last
// claim's day.
func EvaluateStreakStatus(lastClaimAt *time.Time, currentStreak int, now time.Time) StreakStatus {
	if lastClaimAt == nil {
		return StreakStatus{CurrentStreak: 0, CanClaim: true, HoursUntilReset: 48}
	}

	lastDay := startOfDayUTC(*lastClaimAt)
	today := startOfDayUTC(now)
	resetAt := lastDay.Add(48 * time.Hour)
	hoursUntilReset := max(0, resetAt.Sub(now).Hours())

	switch daysBetween(today, lastDay) {
	case 0:
		// Already claimed today — eligible again at the next UTC midnight.
		next := today.AddDate(0, 0, 1)
		return StreakStatus{
			CurrentStreak:   currentStreak,
			CanClaim:        false,
			NextClaimAt:     &next,
			HoursUntilReset: hoursUntilReset,
		}
	case 1:
		return StreakStatus{
			CurrentStreak:   currentStreak,
			CanClaim:        true,
			HoursUntilReset: hoursUntilReset,
		}
	default:
		// Missed a full day — the streak is gone.
		return StreakStatus{CurrentStreak: 0, CanClaim: true, HoursUntilReset: 48}
	}
}

// StreakReward is the outcome of the reward policy for one claim.
type StreakReward struct {
	BaseReward   decimal.Decimal
	Multiplier   float64
	TotalReward  decimal.Decimal
	BonusMessage string
	MilestoneHit *models.StreakMilestone
}

// MultiplierForStreak returns the multiplier of the highest configured
// threshold <= streak, or 1.
func MultiplierForStreak(cfg models.StreakConfig, streak int) float64 {
	multiplier := 1.0
	bestDays := 0
	for days, m := range cfg.Multipliers {
		if streak >= days && days > bestDays {
			multiplier = m
			bestDays = days
		}
	}
	return multiplier
}

// RewardForStreak maps a streak length (after the claim being made) to
// its payout. Pure: same inputs, same reward — the fallback message
// rotation is keyed on the day, not on randomness.
func RewardForStreak(cfg models.StreakConfig, streak int) StreakReward {
	multiplier := MultiplierForStreak(cfg, streak)
	total := cfg.BaseReward.Mul(decimal.NewFromFloat(multiplier)).Round(2)

	message := models.StreakMessageForDay(streak)
	if multiplier > 1 {
		message += fmt.Sprintf(" (%gx streak bonus!)", multiplier)
	}

	milestone := cfg.MilestoneForDay(streak)
	if milestone != nil {
		total = total.Add(milestone.BonusReward)
	}

	return StreakReward{
		BaseReward:   cfg.BaseReward,
		Multiplier:   multiplier,
		TotalReward:  total,
		BonusMessage: message,
		MilestoneHit: milestone,
	}
}
