// services/wallet_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/GGPrompts/useless-wallet-service/models"
	"github.com/GGPrompts/useless-wallet-service/services/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newWalletService(t *testing.T) *WalletService {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewWalletService(db, models.DefaultStreakConfig, NewAchievementService(db))
}

// seedClaimHistory inserts daily_claim ledger rows at the given day
// offsets (0 = today) and points lastClaimAt at the newest one.
func seedClaimHistory(t *testing.T, db *gorm.DB, userID string, daysAgo ...int) {
	t.Helper()
	now := time.Now().UTC()
	for _, offset := range daysAgo {
		row := models.WalletTransaction{
			ID:          uuid.NewString(),
			UserID:      userID,
			Amount:      decimal.NewFromInt(10),
			Type:        models.TxTypeDailyClaim,
			Description: "seeded claim",
			CreatedAt:   now.AddDate(0, 0, -offset),
		}
		require.NoError(t, db.Create(&row).Error)
	}
	last := now.AddDate(0, 0, -daysAgo[0])
	require.NoError(t, db.Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update("last_claim_at", last).Error)
}

func countTransactions(t *testing.T, db *gorm.DB, userID, txType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ?", userID, txType).
		Count(&count).Error)
	return count
}

func TestEnsureWalletIdempotent(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	first, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)
	require.True(t, first.Balance.Equal(SignupBonus))

	second, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	require.Equal(t, int64(1), countTransactions(t, svc.DB, userID, models.TxTypeSignupBonus))
}

func TestClaimDailyWalletNotFound(t *testing.T) {
	svc := newWalletService(t)

	_, err := svc.ClaimDaily(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestClaimDailyFirstClaim(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)

	result, err := svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, result.Streak)
	require.Equal(t, 1.0, result.Multiplier)
	require.True(t, result.Amount.Equal(decimal.NewFromInt(10)))
	require.True(t, result.NewBalance.Equal(decimal.NewFromInt(1010)))
	require.Nil(t, result.MilestoneHit)

	wallet, err := svc.GetWallet(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, wallet.LastClaimAt)
	require.True(t, wallet.Balance.Equal(decimal.NewFromInt(1010)))
	require.Equal(t, int64(1), countTransactions(t, svc.DB, userID, models.TxTypeDailyClaim))
}

func TestClaimDailySecondClaimSameDayRejected(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)

	first, err := svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)
	require.True(t, first.Success)

	second, err := svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)
	require.False(t, second.Success)
	require.Equal(t, "Already claimed today! Come back tomorrow.", second.Error)
	require.Equal(t, 1, second.Streak)
	require.NotNil(t, second.NextClaimAt)
	require.Greater(t, second.MinutesRemaining, 0)
	require.LessOrEqual(t, second.HoursRemaining, 24)

	// Exactly one reward applied: one ledger row, balance unchanged
	// since the first claim.
	require.Equal(t, int64(1), countTransactions(t, svc.DB, userID, models.TxTypeDailyClaim))
	wallet, err := svc.GetWallet(ctx, userID)
	require.NoError(t, err)
	require.True(t, wallet.Balance.Equal(first.NewBalance))
}

func TestClaimDailyContinuesStreakNextDay(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)
	seedClaimHistory(t, svc.DB, userID, 1)

	result, err := svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 2, result.Streak)
}

func TestClaimDailyStreakResetAfterGap(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)
	seedClaimHistory(t, svc.DB, userID, 3, 4, 5, 6)

	result, err := svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, result.Streak)
}

func TestClaimDailyWeekMilestone(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)
	seedClaimHistory(t, svc.DB, userID, 1, 2, 3, 4, 5, 6)

	result, err := svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 7, result.Streak)
	require.Equal(t, 2.0, result.Multiplier)
	require.True(t, result.Amount.Equal(decimal.NewFromInt(70)), "got %s", result.Amount)
	require.NotNil(t, result.MilestoneHit)
	require.Equal(t, "Week Warrior", result.MilestoneHit.Name)

	var count int64
	require.NoError(t, svc.DB.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_type = ?", userID, "streak_7").
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestClaimDailyMilestoneNotRecreated(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)
	seedClaimHistory(t, svc.DB, userID, 1, 2, 3, 4, 5, 6, 7)
	require.NoError(t, svc.DB.Create(&models.UserAchievement{
		ID:              uuid.NewString(),
		UserID:          userID,
		AchievementType: "streak_7",
	}).Error)

	result, err := svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 8, result.Streak)
	require.Nil(t, result.MilestoneHit)

	var count int64
	require.NoError(t, svc.DB.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_type = ?", userID, "streak_7").
		Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestClaimStatusRoundTrip(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)

	before, err := svc.ClaimStatus(ctx, userID)
	require.NoError(t, err)
	require.True(t, before.CanClaim)
	require.Equal(t, 0, before.CurrentStreak)
	require.True(t, before.PotentialReward.Equal(decimal.NewFromInt(10)))
	require.Nil(t, before.LastClaimAt)

	_, err = svc.ClaimDaily(ctx, userID)
	require.NoError(t, err)

	after, err := svc.ClaimStatus(ctx, userID)
	require.NoError(t, err)
	require.False(t, after.CanClaim)
	require.Equal(t, 1, after.CurrentStreak)
	require.NotNil(t, after.NextClaimAt)
	require.NotNil(t, after.LastClaimAt)
}

func TestClaimStatusWalletNotFound(t *testing.T) {
	svc := newWalletService(t)

	_, err := svc.ClaimStatus(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrWalletNotFound)
}

func TestTransactionsNewestFirst(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.EnsureWallet(ctx, userID)
	require.NoError(t, err)
	seedClaimHistory(t, svc.DB, userID, 1, 2, 3)

	transactions, err := svc.Transactions(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	require.True(t, transactions[0].CreatedAt.After(transactions[1].CreatedAt))
}

func TestRefreshLeaderboard(t *testing.T) {
	svc := newWalletService(t)
	ctx := context.Background()

	leader := uuid.NewString()
	runnerUp := uuid.NewString()
	lapsed := uuid.NewString()

	for _, userID := range []string{leader, runnerUp, lapsed} {
		_, err := svc.EnsureWallet(ctx, userID)
		require.NoError(t, err)
	}
	seedClaimHistory(t, svc.DB, leader, 0, 1, 2)
	seedClaimHistory(t, svc.DB, runnerUp, 0)
	seedClaimHistory(t, svc.DB, lapsed, 4, 5, 6)

	require.NoError(t, svc.RefreshLeaderboard(ctx))

	entries, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, leader, entries[0].UserID)
	require.Equal(t, 3, entries[0].Streak)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, runnerUp, entries[1].UserID)
	require.Equal(t, 1, entries[1].Streak)
}

func TestUnlockInTxSkipsDuplicates(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewAchievementService(db)
	userID := uuid.NewString()

	created, err := svc.UnlockInTx(db, userID, "streak_7")
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.UnlockInTx(db, userID, "streak_7")
	require.NoError(t, err)
	require.False(t, created)

	achievements, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
}
