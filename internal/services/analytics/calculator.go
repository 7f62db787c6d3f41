// Package services содержит расчёт метрик выручки и сервис аналитики поверх кеша.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/roadside-billing/internal/lib/period"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	"github.com/magabrotheeeer/roadside-billing/internal/storage"
)

// defaultChurn используется в LTV, когда за месяц не было оттока.
const defaultChurn = 0.05

// Тарифы, которые всегда присутствуют в разбивке выручки.
var reportedTiers = []string{"standard", "premium", "enterprise"}

// Repository определяет чтения и записи, нужные аналитике.
type Repository interface {
	// ListPayingSubscriptions возвращает подписки active и trial вместе с историей тарифа.
	ListPayingSubscriptions(ctx context.Context) ([]models.Subscription, error)
	// ListChurnedSubscriptions возвращает подписки, ушедшие в отток в [from, to].
	ListChurnedSubscriptions(ctx context.Context, from, to time.Time) ([]models.Subscription, error)
	CountActiveUsers(ctx context.Context) (int, error)
	CountUsersCreatedSince(ctx context.Context, since time.Time) (int, error)
	SumCompletedBookingRevenue(ctx context.Context, since time.Time) (float64, error)
	GetRevenueMetrics(ctx context.Context, date time.Time, period string) (*models.RevenueMetrics, error)
	ListRevenueMetrics(ctx context.Context, period string, since time.Time) ([]models.RevenueMetrics, error)
	UpsertRevenueMetrics(ctx context.Context, m *models.RevenueMetrics) error
}

// Calculator считает метрики выручки на момент времени.
type Calculator struct {
	repo Repository
}

func NewCalculator(repo Repository) *Calculator {
	return &Calculator{repo: repo}
}

// snapshotInputs данные, читаемые из хранилища параллельно.
type snapshotInputs struct {
	paying      []models.Subscription
	churned     []models.Subscription
	totalUsers  int
	newUsers    int
	bookings    float64
	prevMRR     float64
	hasPrevious bool
}

func (c *Calculator) load(ctx context.Context, now time.Time) (*snapshotInputs, error) {
	monthStart := period.StartOfMonth(now)
	prevMonthStart := period.StartOfPrevMonth(now)

	var in snapshotInputs
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		in.paying, err = c.repo.ListPayingSubscriptions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.churned, err = c.repo.ListChurnedSubscriptions(gctx, monthStart, now)
		return err
	})
	g.Go(func() error {
		var err error
		in.totalUsers, err = c.repo.CountActiveUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		in.newUsers, err = c.repo.CountUsersCreatedSince(gctx, monthStart)
		return err
	})
	g.Go(func() error {
		var err error
		in.bookings, err = c.repo.SumCompletedBookingRevenue(gctx, monthStart)
		return err
	})
	g.Go(func() error {
		prev, err := c.repo.GetRevenueMetrics(gctx, prevMonthStart, models.PeriodMonthly)
		if errors.Is(err, storage.ErrMetricsNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		in.prevMRR = prev.MRR.Total
		in.hasPrevious = true
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Calculate считает метрики выручки на момент now.
func (c *Calculator) Calculate(ctx context.Context, now time.Time) (*models.RevenueMetrics, error) {
	const op = "analytics.Calculate"
	now = now.UTC()

	in, err := c.load(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return compute(in, now), nil
}

// compute строит снимок из загруженных данных. Функция не обращается к хранилищу.
func compute(in *snapshotInputs, now time.Time) *models.RevenueMetrics {
	monthStart := period.StartOfMonth(now)

	var mrrTotal, mrrNew, expansion, contraction float64
	revenueByPlan := make(map[string]float64, len(reportedTiers))
	subsByPlan := make(map[string]int)
	for _, tier := range reportedTiers {
		revenueByPlan[tier] = 0
	}

	for _, sub := range in.paying {
		amount := sub.MonthlyAmount()
		mrrTotal += amount
		if !sub.StartDate.Before(monthStart) {
			mrrNew += amount
		}
		if sub.Plan.Tier != "" {
			revenueByPlan[sub.Plan.Tier] += amount
			subsByPlan[sub.Plan.Tier]++
		}

		exp, con := planChangeDeltas(sub.PlanHistory, monthStart, now)
		expansion += exp
		contraction += con
	}

	var churnRevenue float64
	for _, sub := range in.churned {
		churnRevenue += sub.MonthlyAmount()
	}
	churnCount := len(in.churned)

	prevMRR := mrrTotal
	if in.hasPrevious && in.prevMRR > 0 {
		prevMRR = in.prevMRR
	}
	var growth float64
	if prevMRR > 0 {
		growth = (mrrTotal - prevMRR) / prevMRR * 100
	}

	paid := len(in.paying)
	var arpuOverall, churnRate float64
	if paid > 0 {
		arpuOverall = mrrTotal / float64(paid)
		churnRate = float64(churnCount) / float64(paid) * 100
	}
	avgChurn := defaultChurn
	if churnRate > 0 {
		avgChurn = churnRate / 100
	}

	arpuByPlan := map[string]float64{"free": 0, "trial": 0}
	ltvByPlan := make(map[string]float64, len(revenueByPlan))
	for tier, revenue := range revenueByPlan {
		var arpu float64
		if n := subsByPlan[tier]; n > 0 {
			arpu = revenue / float64(n)
		}
		arpuByPlan[tier] = round(arpu)
		ltvByPlan[tier] = round(arpu / avgChurn)
	}

	forecastMRR := mrrTotal * (1 + growth/100)

	return &models.RevenueMetrics{
		Date:   now,
		Period: models.PeriodMonthly,
		MRR: models.MRR{
			Total:       round(mrrTotal),
			New:         round(mrrNew),
			Expansion:   round(expansion),
			Contraction: round(contraction),
			Churn:       round(churnRevenue),
			Growth:      round2(growth),
		},
		ARR: models.ARR{
			Total:  round(mrrTotal * 12),
			Growth: round2(growth),
		},
		ARPU: models.ARPU{
			Overall: round(arpuOverall),
			ByPlan:  arpuByPlan,
		},
		LTV: models.LTV{
			Average: round(arpuOverall / avgChurn),
			ByPlan:  ltvByPlan,
		},
		Churn: models.Churn{
			Rate:    round2(churnRate),
			Count:   churnCount,
			Revenue: round(churnRevenue),
		},
		Customers: models.Customers{
			Total:   in.totalUsers,
			New:     in.newUsers,
			Active:  paid,
			Churned: churnCount,
		},
		RevenueBySource: models.RevenueBySource{
			Subscriptions: round(mrrTotal),
			Bookings:      round2(in.bookings),
		},
		RevenueByPlan: revenueByPlan,
		Forecast: models.Forecast{
			MRR:       round(forecastMRR),
			ARR:       round(forecastMRR * 12),
			Customers: int(round(float64(paid) * (1 + growth/100))),
		},
		CalculatedAt: now,
	}
}

// planChangeDeltas суммирует апгрейды и даунгрейды, совершённые в [from, to].
// Дельта считается к предыдущей записи истории; запись без предшественника даёт ноль.
func planChangeDeltas(history []models.PlanChange, from, to time.Time) (expansion, contraction float64) {
	for i, change := range history {
		if i == 0 || !period.Within(change.ChangedAt, from, to) {
			continue
		}
		prev := history[i-1].Price
		switch change.ChangeType {
		case models.PlanChangeUpgrade:
			expansion += math.Max(0, change.Price-prev)
		case models.PlanChangeDowngrade:
			contraction += math.Max(0, prev-change.Price)
		}
	}
	return expansion, contraction
}

// round округляет до целого, половины вверх.
func round(v float64) float64 {
	return math.Floor(v + 0.5)
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
