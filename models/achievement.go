// models/achievement.go
package models

import (
	"time"
)

// UserAchievement records that a user unlocked a named milestone.
// The composite unique index is defense in depth — the claim transaction
// already does a check-then-insert under the wallet row lock.
type UserAchievement struct {
	ID              string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID          string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement_type" json:"user_id"`
	AchievementType string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_achievement_type" json:"achievement_type"`
	UnlockedAt      time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
