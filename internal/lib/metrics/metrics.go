// Package metrics описывает метрики Prometheus сервиса биллинга.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Исходы обработки возврата.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Результаты обращения к кешу аналитики.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

type Metrics struct {
	RefundsProcessed *prometheus.CounterVec
	RefundAmount     prometheus.Counter
	RevenueCache     *prometheus.CounterVec
	SnapshotDuration prometheus.Histogram
}

// New создаёт метрики и регистрирует их в reg.
// При nil используется prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		RefundsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "refunds_processed_total",
			Help:      "Refund attempts by outcome.",
		}, []string{"outcome"}),
		RefundAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "refund_amount_total",
			Help:      "Sum of amounts credited to wallets by refunds.",
		}),
		RevenueCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billing",
			Name:      "revenue_cache_requests_total",
			Help:      "Revenue analytics cache lookups by result.",
		}, []string{"result"}),
		SnapshotDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "billing",
			Name:      "revenue_snapshot_duration_seconds",
			Help:      "Time spent computing and storing a revenue snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.RefundsProcessed, m.RefundAmount, m.RevenueCache, m.SnapshotDuration)
	return m
}

// NewNop возвращает метрики, не привязанные ни к какому реестру.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) RefundProcessed(outcome string, amount float64) {
	if m == nil {
		return
	}
	m.RefundsProcessed.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess && amount > 0 {
		m.RefundAmount.Add(amount)
	}
}

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.RevenueCache.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSnapshot(seconds float64) {
	if m == nil {
		return
	}
	m.SnapshotDuration.Observe(seconds)
}
