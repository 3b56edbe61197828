package worker

import (
	"context"
	"time"

	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

// Janitor periodically expires stale pending holds and completes confirmed
// bookings whose slot end has passed. Both sweeps are idempotent, so the
// lazy expiry done inside booking transactions and the sweeps never fight.
type Janitor struct {
	service usecase.BookingService
	cfg     utils.JanitorConfig
	log     *zap.Logger
}

func NewJanitor(service usecase.BookingService, cfg utils.JanitorConfig, log *zap.Logger) *Janitor {
	return &Janitor{
		service: service,
		cfg:     cfg,
		log:     log.With(zap.String("worker", "janitor")),
	}
}

// Run blocks until ctx is cancelled. Sweep failures are logged and retried on
// the next tick; they never stop the worker.
func (j *Janitor) Run(ctx context.Context) {
	j.log.Info("Janitor started",
		zap.Duration("expiry_interval", j.cfg.ExpiryInterval),
		zap.Duration("completion_interval", j.cfg.CompletionInterval),
	)

	expiryTicker := time.NewTicker(j.cfg.ExpiryInterval)
	defer expiryTicker.Stop()

	completionTicker := time.NewTicker(j.cfg.CompletionInterval)
	defer completionTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info("Janitor stopped")
			return
		case <-expiryTicker.C:
			if _, err := j.service.RunExpirySweep(ctx); err != nil {
				j.log.Error("Expiry sweep failed", zap.Error(err))
			}
		case <-completionTicker.C:
			if _, err := j.service.RunCompletionSweep(ctx); err != nil {
				j.log.Error("Completion sweep failed", zap.Error(err))
			}
		}
	}
}
