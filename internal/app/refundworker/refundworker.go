// Package refundworker содержит приложение, выполняющее автоматические возвраты
// по событиям booking.cancelled из RabbitMQ.
package refundworker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/roadside-billing/internal/app/bootstrap"
	"github.com/magabrotheeeer/roadside-billing/internal/config"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	auditservice "github.com/magabrotheeeer/roadside-billing/internal/services/audit"
	refundservice "github.com/magabrotheeeer/roadside-billing/internal/services/refund"
	"github.com/magabrotheeeer/roadside-billing/internal/storage/repository"
)

const metricsShutdownTimeout = 5 * time.Second

// App воркер возвратов.
type App struct {
	broker        *bootstrap.Broker
	db            *repository.Storage
	refundService *refundservice.RefundService
	metricsServer *http.Server
	logger        *slog.Logger
}

// newMetricsServer отдаёт метрики воркера на addr. Пустой addr отключает сервер.
func newMetricsServer(addr string, handler http.Handler) *http.Server {
	if addr == "" {
		return nil
	}
	router := chi.NewRouter()
	router.Handle("/metrics", handler)
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// New подключает хранилище и брокер и объявляет очередь воркера.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("refundworker.New: rabbitmq url is required")
	}

	db, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	broker, err := bootstrap.OpenBroker(cfg.RabbitMQ, rabbitmq.RefundWorkerQueues())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ: %w", err)
	}

	audit := auditservice.NewAuditLogger(db, logger)
	publisher := rabbitmq.NewPublisher(broker.Ch, cfg.Exchange)
	m, metricsHandler := bootstrap.OpenMetrics()

	return &App{
		broker:        broker,
		db:            db,
		refundService: refundservice.NewRefundService(db, audit, publisher, m, logger),
		metricsServer: newMetricsServer(cfg.MetricsAddress, metricsHandler),
		logger:        logger,
	}, nil
}

// Run потребляет очередь до отмены ctx и дожидается обработки принятых сообщений.
func (a *App) Run(ctx context.Context) error {
	wg, err := rabbitmq.ConsumerMessage(ctx, a.logger, a.broker.Ch, rabbitmq.QueueBookingCancelled, a.refundService.HandleBookingCancelled)
	if err != nil {
		a.logger.Error("failed to start booking cancelled consumer", sl.Err(err))
		a.close()
		return err
	}

	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server stopped", sl.Err(err))
			}
		}()
	}

	<-ctx.Done()
	a.logger.Info("refund worker shutting down gracefully")
	wg.Wait()

	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to stop metrics server", sl.Err(err))
		}
	}

	a.close()
	return nil
}

func (a *App) close() {
	a.broker.Close(a.logger)
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
