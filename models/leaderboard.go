// models/leaderboard.go
package models

import (
	"time"
)

// StreakLeaderboardEntry is a periodic snapshot row, recomputed wholesale
// from the transaction ledger by the leaderboard worker. Never written by
// the claim path.
type StreakLeaderboardEntry struct {
	ID         string    `gorm:"primaryKey;type:uuid;not null" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Streak     int       `gorm:"not null" json:"streak"`
	Rank       int       `gorm:"not null;index" json:"rank"`
	SnapshotAt time.Time `gorm:"not null" json:"snapshot_at"`
}

func (StreakLeaderboardEntry) TableName() string {
	return "streak_leaderboard_entries"
}
