// services/achievement_service.go
package services

import (
	"context"

	"github.com/GGPrompts/useless-wallet-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AchievementService struct {
	DB *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{DB: db}
}

// UnlockInTx awards an achievement inside the caller's transaction.
// Check-then-insert: an already-unlocked achievement is skipped, never an
// error. Race safety comes from the caller's wallet row lock; the unique
// index on (user_id, achievement_type) is the backstop.
func (s *AchievementService) UnlockInTx(tx *gorm.DB, userID, achievementType string) (bool, error) {
	var count int64
	if err := tx.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_type = ?", userID, achievementType).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	achievement := models.UserAchievement{
		ID:              uuid.NewString(),
		UserID:          userID,
		AchievementType: achievementType,
	}
	if err := tx.Create(&achievement).Error; err != nil {
		return false, err
	}

	zap.L().Info("achievement unlocked",
		zap.String("user_id", userID),
		zap.String("achievement_type", achievementType),
	)
	return true, nil
}

// ListForUser returns a user's unlocked achievements, newest first.
func (s *AchievementService) ListForUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var achievements []models.UserAchievement
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&achievements).Error
	return achievements, err
}
