// services/leaderboard.go
package services

import (
	"context"
	"sort"
	"time"

	"github.com/GGPrompts/useless-wallet-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeaderboardSize caps how many rows a snapshot keeps.
const LeaderboardSize = 100

// RefreshLeaderboard rebuilds the streak leaderboard snapshot from the
// ledger. Only users with a daily_claim in the last two days can have a
// live streak, so the candidate scan is bounded.
func (s *WalletService) RefreshLeaderboard(ctx context.Context) error {
	now := time.Now().UTC()
	since := startOfDayUTC(now).AddDate(0, 0, -1)

	var userIDs []string
	if err := s.DB.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Distinct("user_id").
		Where("type = ? AND created_at >= ?", models.TxTypeDailyClaim, since).
		Pluck("user_id", &userIDs).Error; err != nil {
		return err
	}

	entries := make([]models.StreakLeaderboardEntry, 0, len(userIDs))
	for _, userID := range userIDs {
		claims, err := s.recentClaimTimes(s.DB.WithContext(ctx), userID)
		if err != nil {
			return err
		}
		streak := CalculateStreak(s.Config, claims, now)
		if streak == 0 {
			continue
		}
		entries = append(entries, models.StreakLeaderboardEntry{
			ID:         uuid.NewString(),
			UserID:     userID,
			Streak:     streak,
			SnapshotAt: now,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Streak > entries[j].Streak })
	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.StreakLeaderboardEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
	if err != nil {
		return err
	}

	zap.L().Info("streak leaderboard refreshed", zap.Int("entries", len(entries)))
	return nil
}

// Leaderboard returns the current snapshot in rank order.
func (s *WalletService) Leaderboard(ctx context.Context, limit int) ([]models.StreakLeaderboardEntry, error) {
	if limit < 1 || limit > LeaderboardSize {
		limit = 25
	}
	entries := make([]models.StreakLeaderboardEntry, 0, limit)
	err := s.DB.WithContext(ctx).
		Order("rank ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
