// services/wallet_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/GGPrompts/useless-wallet-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrWalletNotFound is returned when a user has no wallet row.
var ErrWalletNotFound = errors.New("wallet not found")

// SignupBonus is credited when a wallet is first provisioned.
var SignupBonus = decimal.NewFromInt(1000)

type WalletService struct {
	DB           *gorm.DB
	Config       models.StreakConfig
	Achievements *AchievementService
}

func NewWalletService(db *gorm.DB, cfg models.StreakConfig, achievements *AchievementService) *WalletService {
	return &WalletService{DB: db, Config: cfg, Achievements: achievements}
}

// lockForUpdate takes the wallet row lock that serializes concurrent
// claims. SQLite (the test database) rejects FOR UPDATE; its
// single-writer model makes the lock redundant there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// ClaimResult is the outcome of one claim attempt. A cooldown rejection
// is a normal result (Success=false), not an error.
type ClaimResult struct {
	Success bool

	// Success fields
	NewBalance   decimal.Decimal
	Amount       decimal.Decimal
	Streak       int
	Multiplier   float64
	Message      string
	MilestoneHit *models.StreakMilestone

	// Cooldown fields
	Error            string
	HoursRemaining   int
	MinutesRemaining int
	NextClaimAt      *time.Time
}

// ClaimDaily runs the whole claim attempt in one DB transaction:
// lock wallet → derive streak from the ledger → check eligibility →
// compute reward → update balance, append ledger row, unlock milestone
// achievements. All writes commit together or not at all.
func (s *WalletService) ClaimDaily(ctx context.Context, userID string) (*ClaimResult, error) {
	now := time.Now().UTC()
	var result *ClaimResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		claims, err := s.recentClaimTimes(tx, userID)
		if err != nil {
			return err
		}
		currentStreak := CalculateStreak(s.Config, claims, now)
		status := EvaluateStreakStatus(wallet.LastClaimAt, currentStreak, now)

		if !status.CanClaim {
			hoursRemaining := 0
			minutesRemaining := 0
			if status.NextClaimAt != nil {
				remaining := status.NextClaimAt.Sub(now)
				hoursRemaining = int(math.Ceil(remaining.Hours()))
				minutesRemaining = int(math.Ceil(remaining.Minutes()))
			}
			result = &ClaimResult{
				Success:          false,
				Error:            "Already claimed today! Come back tomorrow.",
				HoursRemaining:   hoursRemaining,
				MinutesRemaining: minutesRemaining,
				NextClaimAt:      status.NextClaimAt,
				Streak:           currentStreak,
			}
			return nil // no writes on cooldown
		}

		newStreak := status.CurrentStreak + 1
		reward := RewardForStreak(s.Config, newStreak)
		newBalance := wallet.Balance.Add(reward.TotalReward)

		if err := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			Updates(map[string]interface{}{
				"balance":       newBalance,
				"last_claim_at": now,
				"updated_at":    now,
			}).Error; err != nil {
			return err
		}

		transaction := models.WalletTransaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Amount:      reward.TotalReward,
			Type:        models.TxTypeDailyClaim,
			Description: claimDescription(newStreak, reward),
			CreatedAt:   now,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		for _, milestone := range s.Config.Milestones {
			if milestone.Days != newStreak {
				continue
			}
			if _, err := s.Achievements.UnlockInTx(tx, userID, milestone.AchievementType); err != nil {
				return err
			}
		}

		result = &ClaimResult{
			Success:      true,
			NewBalance:   newBalance,
			Amount:       reward.TotalReward,
			Streak:       newStreak,
			Multiplier:   reward.Multiplier,
			Message:      reward.BonusMessage,
			MilestoneHit: reward.MilestoneHit,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Success {
		zap.L().Info("daily claim",
			zap.String("user_id", userID),
			zap.Int("streak", result.Streak),
			zap.String("amount", result.Amount.StringFixed(2)),
			zap.Float64("multiplier", result.Multiplier),
		)
	}
	return result, nil
}

func claimDescription(streak int, reward StreakReward) string {
	description := fmt.Sprintf("Day %d streak claim", streak)
	if reward.Multiplier > 1 {
		description += fmt.Sprintf(" (%gx bonus)", reward.Multiplier)
	}
	if reward.MilestoneHit != nil {
		description += fmt.Sprintf(" - %s milestone!", reward.MilestoneHit.Name)
	}
	return description
}

// StreakStatusResult backs the read-only GET claim-daily endpoint.
type StreakStatusResult struct {
	CurrentStreak   int
	CanClaim        bool
	NextClaimAt     *time.Time
	HoursUntilReset float64
	PotentialReward decimal.Decimal
	Multiplier      float64
	LastClaimAt     *time.Time
}

// ClaimStatus previews streak and reward without writing anything.
func (s *WalletService) ClaimStatus(ctx context.Context, userID string) (*StreakStatusResult, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	claims, err := s.recentClaimTimes(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	currentStreak := CalculateStreak(s.Config, claims, now)
	status := EvaluateStreakStatus(wallet.LastClaimAt, currentStreak, now)

	previewStreak := status.CurrentStreak
	if status.CanClaim {
		previewStreak = status.CurrentStreak + 1
	}
	reward := RewardForStreak(s.Config, previewStreak)

	return &StreakStatusResult{
		CurrentStreak:   currentStreak,
		CanClaim:        status.CanClaim,
		NextClaimAt:     status.NextClaimAt,
		HoursUntilReset: status.HoursUntilReset,
		PotentialReward: reward.TotalReward,
		Multiplier:      reward.Multiplier,
		LastClaimAt:     wallet.LastClaimAt,
	}, nil
}

// EnsureWallet provisions a wallet on first contact (idempotent) and
// credits the signup bonus with its ledger row.
func (s *WalletService) EnsureWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wallet = models.Wallet{
			ID:      uuid.NewString(),
			UserID:  userID,
			Balance: SignupBonus,
		}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
		bonus := models.WalletTransaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Amount:      SignupBonus,
			Type:        models.TxTypeSignupBonus,
			Description: "Welcome to Useless.io! Here's some fake money.",
		}
		return tx.Create(&bonus).Error
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("wallet provisioned", zap.String("user_id", userID))
	return &wallet, nil
}

// GetWallet fetches a user's wallet or ErrWalletNotFound.
func (s *WalletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// Transactions returns the user's ledger, newest first.
func (s *WalletService) Transactions(ctx context.Context, userID string, limit int) ([]models.WalletTransaction, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	transactions := make([]models.WalletTransaction, 0, limit)
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// recentClaimTimes loads the daily_claim timestamps that feed streak
// derivation, bounded to MaxStreak rows.
func (s *WalletService) recentClaimTimes(tx *gorm.DB, userID string) ([]time.Time, error) {
	var rows []models.WalletTransaction
	if err := tx.Select("created_at").
		Where("user_id = ? AND type = ?", userID, models.TxTypeDailyClaim).
		Order("created_at DESC").
		Limit(s.Config.MaxStreak).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	times := make([]time.Time, len(rows))
	for i, row := range rows {
		times[i] = row.CreatedAt
	}
	return times, nil
}
