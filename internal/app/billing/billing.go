package billing

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
	"github.com/magabrotheeeer/roadside-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/jwt"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	analyticsservice "github.com/magabrotheeeer/roadside-billing/internal/services/analytics"
	auditservice "github.com/magabrotheeeer/roadside-billing/internal/services/audit"
	authservice "github.com/magabrotheeeer/roadside-billing/internal/services/auth"
	refundservice "github.com/magabrotheeeer/roadside-billing/internal/services/refund"
	"github.com/magabrotheeeer/roadside-billing/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP API биллинга.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  bootstrap.ReportCache
	broker *bootstrap.Broker
}

// New поднимает хранилище, кеш, брокер (если задан RabbitMQ URL) и собирает роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "billing.New"

	db, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reportCache := bootstrap.OpenCache(ctx, cfg.RedisConnection, logger)

	var broker *bootstrap.Broker
	var publisher refundservice.Publisher
	if cfg.URL != "" {
		broker, err = bootstrap.OpenBroker(cfg.RabbitMQ, nil)
		if err != nil {
			_ = reportCache.Close()
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewPublisher(broker.Ch, cfg.Exchange)
	} else {
		logger.Info("rabbitmq url is not set, refund events are not published")
	}

	m, metricsHandler := bootstrap.OpenMetrics()

	audit := auditservice.NewAuditLogger(db, logger)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteDeps{
		Analytics: analyticsservice.NewAnalyticsService(db, reportCache, cfg.CacheTTL, m, logger),
		Refunds:   refundservice.NewRefundService(db, audit, publisher, m, logger),
		Auth:      authservice.NewAuthService(db, jwtMaker),
		Audit:     audit,
		Tokens:    jwtMaker,
		TokenTTL:  cfg.TokenTTL,
		Bookings:  db,
		Health:    db,
		Limiter:   middlewarectx.NewIPRateLimiter(cfg.RateLimitPerMinute),
		Metrics:   metricsHandler,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  reportCache,
		broker: broker,
	}, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	a.close()
	return err
}

func (a *App) close() {
	a.broker.Close(a.logger)
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
