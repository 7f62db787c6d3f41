package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/roadside-billing/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListPayingSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}
func (m *RepoMock) ListChurnedSubscriptions(ctx context.Context, from, to time.Time) ([]models.Subscription, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}
func (m *RepoMock) CountActiveUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CountUsersCreatedSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) SumCompletedBookingRevenue(ctx context.Context, since time.Time) (float64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(float64), args.Error(1)
}
func (m *RepoMock) GetRevenueMetrics(ctx context.Context, date time.Time, period string) (*models.RevenueMetrics, error) {
	args := m.Called(ctx, date, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RevenueMetrics), args.Error(1)
}
func (m *RepoMock) ListRevenueMetrics(ctx context.Context, period string, since time.Time) ([]models.RevenueMetrics, error) {
	args := m.Called(ctx, period, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RevenueMetrics), args.Error(1)
}
func (m *RepoMock) UpsertRevenueMetrics(ctx context.Context, rm *models.RevenueMetrics) error {
	return m.Called(ctx, rm).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}
func (m *CacheMock) InvalidatePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}
