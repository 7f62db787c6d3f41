package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/roadside-billing/internal/models"
	"github.com/magabrotheeeer/roadside-billing/internal/storage"
)

var (
	testNow        = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	testMonthStart = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	testPrevMonth  = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
)

func sub(tier, cycle string, monthly, yearly float64, start time.Time) models.Subscription {
	return models.Subscription{
		Plan:         models.Plan{Tier: tier, PriceMonthly: monthly, PriceYearly: yearly},
		Status:       models.SubscriptionActive,
		BillingCycle: cycle,
		StartDate:    start,
	}
}

func TestCalculator_Calculate(t *testing.T) {
	paying := []models.Subscription{
		sub("premium", models.BillingMonthly, 1000, 10000, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
		sub("standard", models.BillingYearly, 600, 6000, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
		sub("basic", models.BillingMonthly, 300, 3000, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)),
	}
	cancelledAt := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	churned := []models.Subscription{{
		Plan:             models.Plan{Tier: "standard", PriceMonthly: 500},
		Status:           models.SubscriptionCancelled,
		BillingCycle:     models.BillingMonthly,
		CancellationDate: &cancelledAt,
	}}

	repo := new(RepoMock)
	repo.On("ListPayingSubscriptions", mock.Anything).Return(paying, nil).Once()
	repo.On("ListChurnedSubscriptions", mock.Anything, testMonthStart, testNow).Return(churned, nil).Once()
	repo.On("CountActiveUsers", mock.Anything).Return(10, nil).Once()
	repo.On("CountUsersCreatedSince", mock.Anything, testMonthStart).Return(2, nil).Once()
	repo.On("SumCompletedBookingRevenue", mock.Anything, testMonthStart).Return(1234.567, nil).Once()
	repo.On("GetRevenueMetrics", mock.Anything, testPrevMonth, models.PeriodMonthly).
		Return(&models.RevenueMetrics{MRR: models.MRR{Total: 1500}}, nil).Once()

	m, err := NewCalculator(repo).Calculate(context.Background(), testNow)
	require.NoError(t, err)
	repo.AssertExpectations(t)

	assert.Equal(t, 1800.0, m.MRR.Total, "MRR is the sum of monthly contributions")
	assert.Equal(t, 500.0, m.MRR.New)
	assert.Equal(t, 500.0, m.MRR.Churn)
	assert.Equal(t, 20.0, m.MRR.Growth)
	assert.Equal(t, 21600.0, m.ARR.Total)
	assert.Equal(t, 20.0, m.ARR.Growth)

	assert.Equal(t, 1000.0, m.RevenueByPlan["premium"])
	assert.Equal(t, 500.0, m.RevenueByPlan["standard"])
	assert.Equal(t, 300.0, m.RevenueByPlan["basic"])
	assert.Equal(t, 0.0, m.RevenueByPlan["enterprise"])

	assert.Equal(t, 600.0, m.ARPU.Overall)
	assert.Equal(t, 1000.0, m.ARPU.ByPlan["premium"])
	assert.Equal(t, 0.0, m.ARPU.ByPlan["free"])

	assert.Equal(t, 1, m.Churn.Count)
	assert.Equal(t, 500.0, m.Churn.Revenue)
	assert.Equal(t, 33.33, m.Churn.Rate)
	assert.Equal(t, 1800.0, m.LTV.Average)

	assert.Equal(t, models.Customers{Total: 10, New: 2, Active: 3, Churned: 1}, m.Customers)
	assert.Equal(t, 1800.0, m.RevenueBySource.Subscriptions)
	assert.Equal(t, 1234.57, m.RevenueBySource.Bookings)
	assert.Equal(t, 0.0, m.RevenueBySource.Other)

	assert.Equal(t, models.Forecast{MRR: 2160, ARR: 25920, Customers: 4}, m.Forecast)
	assert.Equal(t, models.PeriodMonthly, m.Period)
	assert.True(t, m.CalculatedAt.Equal(testNow))
}

func TestCalculator_NoPreviousSnapshot(t *testing.T) {
	repo := new(RepoMock)
	repo.On("ListPayingSubscriptions", mock.Anything).
		Return([]models.Subscription{sub("premium", models.BillingMonthly, 1000, 0, testPrevMonth)}, nil)
	repo.On("ListChurnedSubscriptions", mock.Anything, mock.Anything, mock.Anything).Return([]models.Subscription{}, nil)
	repo.On("CountActiveUsers", mock.Anything).Return(1, nil)
	repo.On("CountUsersCreatedSince", mock.Anything, mock.Anything).Return(0, nil)
	repo.On("SumCompletedBookingRevenue", mock.Anything, mock.Anything).Return(0.0, nil)
	repo.On("GetRevenueMetrics", mock.Anything, mock.Anything, mock.Anything).Return(nil, storage.ErrMetricsNotFound)

	m, err := NewCalculator(repo).Calculate(context.Background(), testNow)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.MRR.Growth, "missing previous snapshot means no growth")
	assert.Equal(t, 1000.0, m.Forecast.MRR)
	// без оттока LTV считается с нижней границей 5%
	assert.Equal(t, 20000.0, m.LTV.Average)
	assert.Equal(t, 20000.0, m.LTV.ByPlan["premium"])
}

func TestCalculator_RepositoryError(t *testing.T) {
	repoErr := errors.New("db down")
	repo := new(RepoMock)
	repo.On("ListPayingSubscriptions", mock.Anything).Return(nil, repoErr)
	repo.On("ListChurnedSubscriptions", mock.Anything, mock.Anything, mock.Anything).Return([]models.Subscription{}, nil).Maybe()
	repo.On("CountActiveUsers", mock.Anything).Return(0, nil).Maybe()
	repo.On("CountUsersCreatedSince", mock.Anything, mock.Anything).Return(0, nil).Maybe()
	repo.On("SumCompletedBookingRevenue", mock.Anything, mock.Anything).Return(0.0, nil).Maybe()
	repo.On("GetRevenueMetrics", mock.Anything, mock.Anything, mock.Anything).Return(nil, storage.ErrMetricsNotFound).Maybe()

	m, err := NewCalculator(repo).Calculate(context.Background(), testNow)
	assert.Nil(t, m)
	require.ErrorIs(t, err, repoErr)
}

func TestPlanChangeDeltas(t *testing.T) {
	history := []models.PlanChange{
		{Price: 500, ChangedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), ChangeType: models.PlanChangeInitial},
		{Price: 700, ChangedAt: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), ChangeType: models.PlanChangeUpgrade},
		{Price: 1000, ChangedAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), ChangeType: models.PlanChangeUpgrade},
		{Price: 800, ChangedAt: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), ChangeType: models.PlanChangeDowngrade},
	}

	tests := []struct {
		name            string
		history         []models.PlanChange
		wantExpansion   float64
		wantContraction float64
	}{
		{name: "changes inside month", history: history, wantExpansion: 300, wantContraction: 200},
		{name: "empty history", history: nil},
		{
			name: "first entry has no predecessor",
			history: []models.PlanChange{
				{Price: 1000, ChangedAt: testMonthStart.AddDate(0, 0, 2), ChangeType: models.PlanChangeUpgrade},
			},
		},
		{
			name: "mislabeled upgrade to cheaper plan is not negative",
			history: []models.PlanChange{
				{Price: 1000, ChangedAt: testPrevMonth, ChangeType: models.PlanChangeInitial},
				{Price: 500, ChangedAt: testMonthStart.AddDate(0, 0, 1), ChangeType: models.PlanChangeUpgrade},
			},
		},
		{
			name: "future change ignored",
			history: []models.PlanChange{
				{Price: 500, ChangedAt: testPrevMonth, ChangeType: models.PlanChangeInitial},
				{Price: 900, ChangedAt: testNow.Add(time.Hour), ChangeType: models.PlanChangeUpgrade},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, con := planChangeDeltas(tt.history, testMonthStart, testNow)
			assert.Equal(t, tt.wantExpansion, exp)
			assert.Equal(t, tt.wantContraction, con)
		})
	}
}

func TestCompute_ExpansionAndContraction(t *testing.T) {
	s := sub("premium", models.BillingMonthly, 800, 0, testPrevMonth)
	s.PlanHistory = []models.PlanChange{
		{Price: 500, ChangedAt: testPrevMonth, ChangeType: models.PlanChangeInitial},
		{Price: 1000, ChangedAt: testMonthStart.AddDate(0, 0, 4), ChangeType: models.PlanChangeUpgrade},
		{Price: 800, ChangedAt: testMonthStart.AddDate(0, 0, 9), ChangeType: models.PlanChangeDowngrade},
	}

	m := compute(&snapshotInputs{paying: []models.Subscription{s}}, testNow)

	assert.Equal(t, 500.0, m.MRR.Expansion)
	assert.Equal(t, 200.0, m.MRR.Contraction)
	assert.Equal(t, 800.0, m.MRR.Total)
}

func TestCompute_Empty(t *testing.T) {
	m := compute(&snapshotInputs{}, testNow)

	assert.Equal(t, 0.0, m.MRR.Total)
	assert.Equal(t, 0.0, m.ARPU.Overall)
	assert.Equal(t, 0.0, m.Churn.Rate)
	assert.Equal(t, 0.0, m.LTV.Average)
	assert.Equal(t, 0, m.Forecast.Customers)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.0, round(2.5))
	assert.Equal(t, -2.0, round(-2.5))
	assert.Equal(t, 33.33, round2(100.0/3))
	assert.Equal(t, 0.13, round2(0.125))
	assert.Equal(t, -0.12, round2(-0.125))
}
