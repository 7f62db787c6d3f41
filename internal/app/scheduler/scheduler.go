// Package scheduler содержит приложение, периодически сохраняющее снимок метрик выручки.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/roadside-billing/internal/app/bootstrap"
	"github.com/magabrotheeeer/roadside-billing/internal/config"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/metrics"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	analyticsservice "github.com/magabrotheeeer/roadside-billing/internal/services/analytics"
	schedulerservice "github.com/magabrotheeeer/roadside-billing/internal/services/scheduler"
	"github.com/magabrotheeeer/roadside-billing/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *schedulerservice.SchedulerService
	db               *repository.Storage
	cache            bootstrap.ReportCache
	logger           *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	reportCache := bootstrap.OpenCache(ctx, cfg.RedisConnection, logger)
	analytics := analyticsservice.NewAnalyticsService(db, reportCache, cfg.CacheTTL, metrics.NewNop(), logger)

	return &App{
		schedulerService: schedulerservice.NewSchedulerService(analytics, cfg.SnapshotInterval, logger),
		db:               db,
		cache:            reportCache,
		logger:           logger,
	}, nil
}

// Run запускает планировщик и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("revenue snapshot scheduler started")
	a.schedulerService.Run(ctx)

	a.logger.Info("shutting down scheduler service")

	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
	return nil
}
