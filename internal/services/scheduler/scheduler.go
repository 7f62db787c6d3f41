// Package services периодически сохраняет снимок метрик выручки.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
)

// SnapshotTaker рассчитывает и сохраняет снимок метрик.
type SnapshotTaker interface {
	Snapshot(ctx context.Context) (*models.RevenueMetrics, error)
}

// SchedulerService запускает снимок метрик по таймеру.
type SchedulerService struct {
	analytics SnapshotTaker
	interval  time.Duration
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(analytics SnapshotTaker, interval time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		analytics: analytics,
		interval:  interval,
		log:       log,
	}
}

// Run делает снимок сразу и затем каждые interval, пока не отменён ctx.
func (s *SchedulerService) Run(ctx context.Context) {
	s.runSnapshot(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("revenue snapshot scheduler stopped")
			return
		case <-ticker.C:
			s.runSnapshot(ctx)
		}
	}
}

func (s *SchedulerService) runSnapshot(ctx context.Context) {
	s.log.Info("starting revenue metrics snapshot")
	m, err := s.analytics.Snapshot(ctx)
	if err != nil {
		s.log.Error("failed to take revenue snapshot", sl.Err(err))
		return
	}
	s.log.Info("revenue snapshot stored",
		slog.Time("date", m.Date),
		slog.Float64("mrr", m.MRR.Total),
	)
}
