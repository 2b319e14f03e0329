package workers

import (
	"context"
	"time"

	"atithi_backend/internal/logger"
	"atithi_backend/internal/repositories"
)

// TempUserWorker sweeps expired staged registrations so abandoned signups do
// not pile up.
type TempUserWorker struct {
	userRepo repositories.UserRepository
	interval time.Duration
}

func NewTempUserWorker(userRepo repositories.UserRepository) *TempUserWorker {
	return &TempUserWorker{
		userRepo: userRepo,
		interval: 15 * time.Minute,
	}
}

func (w *TempUserWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *TempUserWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("temp user worker stopped")
			return
		case <-ticker.C:
			removed, err := w.userRepo.DeleteExpiredTempUsers(ctx, time.Now())
			if err != nil {
				logger.WorkerLog("temp_user_worker", "cleanup", err)
				continue
			}
			if removed > 0 {
				logger.Info("removed expired temp registrations", "count", removed)
			}
		}
	}
}
