// workers/leaderboard_worker.go
package workers

import (
	"context"
	"time"

	"github.com/GGPrompts/useless-wallet-service/services"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// StartLeaderboardScheduler refreshes the streak leaderboard snapshot on
// an interval. The claim path itself never touches the snapshot — this
// is the only writer.
func StartLeaderboardScheduler(ctx context.Context, walletService *services.WalletService, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if err := walletService.RefreshLeaderboard(ctx); err != nil {
				zap.L().Error("leaderboard refresh failed", zap.Error(err))
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	zap.L().Info("leaderboard scheduler started", zap.Duration("interval", interval))
	return sched, nil
}
