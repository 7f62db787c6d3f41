package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/roadside-billing/internal/lib/metrics"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/period"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
)

// CachePrefix префикс ключей кешированных отчётов о выручке.
const CachePrefix = "analytics:revenue:"

// NoHistoryMessage сообщение отчёта, когда снимков за период нет.
const NoHistoryMessage = "No historical data available. Showing current metrics."

// MaxMonths верхняя граница глубины истории в отчёте.
const MaxMonths = 120

var (
	ErrInvalidPeriod = errors.New("invalid period")
	ErrInvalidMonths = errors.New("months must be between 1 and 120")
)

// Cache описывает кеш отчётов.
type Cache interface {
	// Get читает значение по ключу в result, found=false при промахе.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// InvalidatePrefix удаляет все ключи с префиксом.
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// RevenueReport ответ аналитики выручки: текущие метрики и исторический ряд.
type RevenueReport struct {
	Cached     bool                    `json:"cached,omitempty"`
	Current    *models.RevenueMetrics  `json:"current"`
	Historical []models.MetricsSummary `json:"historical"`
	Message    string                  `json:"message,omitempty"`
}

// AnalyticsService отдаёт отчёты о выручке через кеш и сохраняет снимки метрик.
type AnalyticsService struct {
	calc     *Calculator
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time
}

// NewAnalyticsService создает новый экземпляр AnalyticsService.
func NewAnalyticsService(repo Repository, cache Cache, cacheTTL time.Duration, m *metrics.Metrics, log *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		calc:     NewCalculator(repo),
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

func cacheKey(p string, months int) string {
	return fmt.Sprintf("%s%s:%d", CachePrefix, p, months)
}

func validPeriod(p string) bool {
	switch p {
	case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly, models.PeriodYearly:
		return true
	}
	return false
}

// Revenue возвращает отчёт о выручке за последние months месяцев.
// Ошибки кеша не прерывают запрос: отчёт собирается из базы.
func (s *AnalyticsService) Revenue(ctx context.Context, p string, months int) (*RevenueReport, error) {
	const op = "analytics.Revenue"
	if !validPeriod(p) {
		return nil, fmt.Errorf("%s: %w: %q", op, ErrInvalidPeriod, p)
	}
	if months < 1 || months > MaxMonths {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidMonths)
	}
	log := s.log.With(sl.Op(op))

	key := cacheKey(p, months)
	var cached RevenueReport
	found, err := s.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		s.metrics.CacheLookup(metrics.CacheError)
		log.Warn("revenue cache read failed", slog.String("key", key), sl.Err(err))
	case found:
		s.metrics.CacheLookup(metrics.CacheHit)
		cached.Cached = true
		return &cached, nil
	default:
		s.metrics.CacheLookup(metrics.CacheMiss)
	}

	now := s.now().UTC()
	snapshots, err := s.repo.ListRevenueMetrics(ctx, p, period.MonthsAgo(now, months))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(snapshots) == 0 {
		current, err := s.calc.Calculate(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &RevenueReport{
			Current:    current,
			Historical: []models.MetricsSummary{},
			Message:    NoHistoryMessage,
		}, nil
	}

	latest := snapshots[0]
	report := &RevenueReport{
		Current:    &latest,
		Historical: make([]models.MetricsSummary, 0, len(snapshots)),
	}
	for _, m := range snapshots {
		report.Historical = append(report.Historical, m.Summary())
	}

	if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
		log.Error("failed to cache revenue report", slog.String("key", key), sl.Err(err))
	}
	return report, nil
}

// Snapshot считает метрики на текущий момент и сохраняет их как месячный снимок за сегодня.
func (s *AnalyticsService) Snapshot(ctx context.Context) (*models.RevenueMetrics, error) {
	const op = "analytics.Snapshot"
	started := time.Now()
	now := s.now().UTC()

	m, err := s.calc.Calculate(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.Date = period.StartOfDay(now)
	m.Period = models.PeriodMonthly

	if err := s.repo.UpsertRevenueMetrics(ctx, m); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.ObserveSnapshot(time.Since(started).Seconds())

	if err := s.cache.InvalidatePrefix(ctx, CachePrefix); err != nil {
		s.log.Warn("failed to invalidate revenue cache", sl.Op(op), sl.Err(err))
	}
	s.log.Info("revenue metrics snapshot stored",
		sl.Op(op),
		slog.Time("date", m.Date),
		slog.Float64("mrr", m.MRR.Total),
		slog.Int("active", m.Customers.Active),
	)
	return m, nil
}
