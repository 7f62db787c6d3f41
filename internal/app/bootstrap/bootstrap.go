// Package bootstrap открывает общие ресурсы приложений биллинга:
// PostgreSQL с миграциями, кеш redis и канал RabbitMQ.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/roadside-billing/internal/cache"
	"github.com/magabrotheeeer/roadside-billing/internal/config"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/metrics"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/migrations"
	"github.com/magabrotheeeer/roadside-billing/internal/storage/repository"
)

const (
	dbReadyRetries = 10
	dbReadyDelay   = 3 * time.Second
)

// ReportCache кеш отчётов, общий для redis и заглушки.
type ReportCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
	Close() error
}

// OpenStorage подключается к PostgreSQL, накатывает миграции и ждёт готовности схемы.
func OpenStorage(ctx context.Context, cfg *config.Config) (*repository.Storage, error) {
	const op = "bootstrap.OpenStorage"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := db.WaitReady(ctx, dbReadyRetries, dbReadyDelay); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return db, nil
}

// OpenCache подключается к redis. Без адреса или при недоступном redis
// возвращается кеш-заглушка: аналитика работает без кеша.
func OpenCache(ctx context.Context, cfg config.RedisConnection, log *slog.Logger) ReportCache {
	if cfg.AddressRedis == "" {
		log.Info("redis address is not set, revenue cache disabled")
		return cache.NopCache{}
	}
	c, err := cache.InitServer(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable, revenue cache disabled", sl.Err(err))
		return cache.NopCache{}
	}
	return c
}

// OpenMetrics создаёт реестр с метриками рантайма и биллинга и его HTTP-обработчик.
func OpenMetrics() (*metrics.Metrics, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.New(reg), promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Broker соединение и канал RabbitMQ.
type Broker struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// OpenBroker подключается к RabbitMQ и объявляет exchange и очереди.
func OpenBroker(cfg config.RabbitMQ, queues []rabbitmq.QueueConfig) (*Broker, error) {
	const op = "bootstrap.OpenBroker"

	conn, err := rabbitmq.Connect(cfg.URL, cfg.MaxRetries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, queues)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Broker{Conn: conn, Ch: ch}, nil
}

// Close закрывает канал и соединение. Безопасен для nil.
func (b *Broker) Close(log *slog.Logger) {
	if b == nil {
		return
	}
	if err := b.Ch.Close(); err != nil {
		log.Error("failed to close channel", sl.Err(err))
	}
	if err := b.Conn.Close(); err != nil {
		log.Error("failed to close connection", sl.Err(err))
	}
}
