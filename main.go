package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/GGPrompts/useless-wallet-service/config"
	"github.com/GGPrompts/useless-wallet-service/handlers"
	"github.com/GGPrompts/useless-wallet-service/middleware"
	"github.com/GGPrompts/useless-wallet-service/models"
	"github.com/GGPrompts/useless-wallet-service/services"
	"github.com/GGPrompts/useless-wallet-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.UserAchievement{},
		&models.StreakLeaderboardEntry{},
	); err != nil {
		zap.L().Fatal("failed to migrate database", zap.Error(err))
	}

	achievementService := services.NewAchievementService(db)
	walletService := services.NewWalletService(db, models.DefaultStreakConfig, achievementService)

	app := fiber.New(fiber.Config{
		AppName: "useless-wallet-service",
	})

	// 🔐 GLOBAL: X-User-ID is only trusted when it comes from the Gateway.
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))

	allowedOrigins := make([]string, 0)
	for _, origin := range strings.Split(cfg.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowedOrigins = append(allowedOrigins, origin)
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOrigins, ","),
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-Service-Token",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	handlers.SetupWalletRoutes(app, walletService, achievementService, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler, err := workers.StartLeaderboardScheduler(ctx, walletService, cfg.LeaderboardRefreshInterval)
	if err != nil {
		zap.L().Fatal("failed to start leaderboard scheduler", zap.Error(err))
	}

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			zap.L().Error("server stopped", zap.Error(err))
		}
	}()

	zap.L().Info("✅ wallet service running", zap.Int("port", cfg.Port))

	<-ctx.Done()
	zap.L().Info("shutting down")
	_ = scheduler.Shutdown()
	_ = app.Shutdown()
}

func newLogger(level string) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zapCfg.Level = lvl
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
