// handlers/wallet_routes.go
package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/GGPrompts/useless-wallet-service/middleware"
	"github.com/GGPrompts/useless-wallet-service/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func SetupWalletRoutes(app *fiber.App, walletService *services.WalletService, achievementService *services.AchievementService, jwtSecret string) {
	// 🔐 All wallet routes require an authenticated user.
	securedGroup := app.Group("/api", middleware.UserContextMiddleware(jwtSecret))

	securedGroup.Post("/wallet/claim-daily", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		result, err := walletService.ClaimDaily(c.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrWalletNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Wallet not found",
				})
			}
			zap.L().Error("claim-daily failed", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		if !result.Success {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":          false,
				"error":            result.Error,
				"hoursRemaining":   result.HoursRemaining,
				"minutesRemaining": result.MinutesRemaining,
				"nextClaimAt":      isoTime(result.NextClaimAt),
				"streak":           result.Streak,
			})
		}

		response := fiber.Map{
			"success":    true,
			"newBalance": result.NewBalance.StringFixed(2),
			"amount":     result.Amount.InexactFloat64(),
			"streak":     result.Streak,
			"multiplier": result.Multiplier,
			"message":    result.Message,
		}
		if result.MilestoneHit != nil {
			response["milestoneHit"] = fiber.Map{
				"name":        result.MilestoneHit.Name,
				"description": result.MilestoneHit.Description,
				"bonusReward": result.MilestoneHit.BonusReward.InexactFloat64(),
			}
		}
		return c.JSON(response)
	})

	securedGroup.Get("/wallet/claim-daily", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		status, err := walletService.ClaimStatus(c.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrWalletNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Wallet not found",
				})
			}
			zap.L().Error("claim status failed", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		return c.JSON(fiber.Map{
			"currentStreak":   status.CurrentStreak,
			"canClaim":        status.CanClaim,
			"nextClaimAt":     isoTime(status.NextClaimAt),
			"hoursUntilReset": status.HoursUntilReset,
			"potentialReward": status.PotentialReward.InexactFloat64(),
			"multiplier":      status.Multiplier,
			"lastClaimAt":     isoTime(status.LastClaimAt),
		})
	})

	securedGroup.Get("/wallet", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		wallet, err := walletService.EnsureWallet(c.Context(), userID)
		if err != nil {
			zap.L().Error("wallet fetch failed", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		transactions, err := walletService.Transactions(c.Context(), userID, 10)
		if err != nil {
			zap.L().Error("transactions fetch failed", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		return c.JSON(fiber.Map{
			"balance":      wallet.Balance.StringFixed(2),
			"lastClaimAt":  isoTime(wallet.LastClaimAt),
			"transactions": transactions,
		})
	})

	securedGroup.Get("/wallet/transactions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		limit, _ := strconv.Atoi(c.Query("limit", "20"))

		transactions, err := walletService.Transactions(c.Context(), userID, limit)
		if err != nil {
			zap.L().Error("transactions fetch failed", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		return c.JSON(fiber.Map{"transactions": transactions})
	})

	securedGroup.Get("/wallet/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "25"))

		entries, err := walletService.Leaderboard(c.Context(), limit)
		if err != nil {
			zap.L().Error("leaderboard fetch failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})

	securedGroup.Get("/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		achievements, err := achievementService.ListForUser(c.Context(), userID)
		if err != nil {
			zap.L().Error("achievements fetch failed", zap.String("user_id", userID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		items := make([]fiber.Map, 0, len(achievements))
		for _, achievement := range achievements {
			item := fiber.Map{
				"id":              achievement.ID,
				"achievementType": achievement.AchievementType,
				"unlockedAt":      achievement.UnlockedAt.UTC().Format(time.RFC3339),
			}
			if milestone := walletService.Config.MilestoneForType(achievement.AchievementType); milestone != nil {
				item["name"] = milestone.Name
				item["description"] = milestone.Description
			}
			items = append(items, item)
		}
		return c.JSON(fiber.Map{"achievements": items})
	})
}

func isoTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
