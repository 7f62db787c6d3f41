package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/roadside-billing/internal/models"
	"github.com/magabrotheeeer/roadside-billing/internal/storage"
)

const subscriptionsQuery = `
	SELECT s.id, s.user_id, s.status, s.billing_cycle, s.start_date, s.end_date, s.cancellation_date,
	       p.id, p.name, p.tier, p.price_monthly, p.price_yearly,
	       h.plan_id, h.price, h.changed_at, h.change_type
	FROM subscriptions s
	JOIN plans p ON p.id = s.plan_id
	LEFT JOIN subscription_plan_history h ON h.subscription_id = s.id
	%s
	ORDER BY s.start_date, s.id, h.changed_at, h.id`

// ListPayingSubscriptions возвращает подписки в статусах active и trial вместе с тарифом и историей смены тарифа.
func (s *Storage) ListPayingSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	const op = "storage.ListPayingSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := `WHERE s.status IN ('active', 'trial')`
	subs, err := s.listSubscriptions(ctx, where)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// ListChurnedSubscriptions возвращает отменённые подписки, у которых дата отмены
// (или дата окончания, если отмена не зафиксирована) лежит в [from, to].
func (s *Storage) ListChurnedSubscriptions(ctx context.Context, from, to time.Time) ([]models.Subscription, error) {
	const op = "storage.ListChurnedSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := `WHERE s.status = 'cancelled'
	  AND COALESCE(s.cancellation_date, s.end_date) >= $1
	  AND COALESCE(s.cancellation_date, s.end_date) <= $2`
	subs, err := s.listSubscriptions(ctx, where, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// listSubscriptions выполняет запрос с LEFT JOIN на историю и собирает строки в подписки.
func (s *Storage) listSubscriptions(ctx context.Context, where string, args ...any) ([]models.Subscription, error) {
	rows, err := s.DB.QueryContext(ctx, fmt.Sprintf(subscriptionsQuery, where), args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscription
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			sub          models.Subscription
			cancellation sql.NullTime
			histPlan     uuid.NullUUID
			histPrice    sql.NullFloat64
			histChanged  sql.NullTime
			histType     sql.NullString
		)
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Status, &sub.BillingCycle, &sub.StartDate,
			&sub.EndDate, &cancellation,
			&sub.Plan.ID, &sub.Plan.Name, &sub.Plan.Tier, &sub.Plan.PriceMonthly, &sub.Plan.PriceYearly,
			&histPlan, &histPrice, &histChanged, &histType); err != nil {
			return nil, err
		}

		i, ok := index[sub.ID]
		if !ok {
			if cancellation.Valid {
				t := cancellation.Time.UTC()
				sub.CancellationDate = &t
			}
			sub.StartDate = sub.StartDate.UTC()
			sub.EndDate = sub.EndDate.UTC()
			result = append(result, sub)
			i = len(result) - 1
			index[sub.ID] = i
		}
		if histPlan.Valid {
			result[i].PlanHistory = append(result[i].PlanHistory, models.PlanChange{
				PlanID:     histPlan.UUID,
				Price:      histPrice.Float64,
				ChangedAt:  histChanged.Time.UTC(),
				ChangeType: histType.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountActiveUsers возвращает число активных пользователей.
func (s *Storage) CountActiveUsers(ctx context.Context) (int, error) {
	const op = "storage.CountActiveUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountUsersCreatedSince возвращает число пользователей, зарегистрированных начиная с since.
func (s *Storage) CountUsersCreatedSince(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.CountUsersCreatedSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// SumCompletedBookingRevenue суммирует фактическую стоимость завершённых бронирований, созданных начиная с since.
func (s *Storage) SumCompletedBookingRevenue(ctx context.Context, since time.Time) (float64, error) {
	const op = "storage.SumCompletedBookingRevenue"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total float64
	query := `SELECT COALESCE(SUM(actual_cost), 0)::float8
			  FROM bookings
			  WHERE status = 'completed' AND created_at >= $1`
	if err := s.DB.QueryRowContext(ctx, query, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// GetRevenueMetrics возвращает снимок за дату и период или storage.ErrMetricsNotFound.
func (s *Storage) GetRevenueMetrics(ctx context.Context, date time.Time, period string) (*models.RevenueMetrics, error) {
	const op = "storage.GetRevenueMetrics"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT date, period, metrics, calculated_at
			  FROM revenue_metrics
			  WHERE date = $1::date AND period = $2`
	m, err := scanRevenueMetrics(s.DB.QueryRowContext(ctx, query, date, period))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrMetricsNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListRevenueMetrics возвращает снимки периода начиная с since, от новых к старым.
func (s *Storage) ListRevenueMetrics(ctx context.Context, period string, since time.Time) ([]models.RevenueMetrics, error) {
	const op = "storage.ListRevenueMetrics"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT date, period, metrics, calculated_at
			  FROM revenue_metrics
			  WHERE period = $1 AND date >= $2::date
			  ORDER BY date DESC`
	rows, err := s.DB.QueryContext(ctx, query, period, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.RevenueMetrics
	for rows.Next() {
		m, err := scanRevenueMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertRevenueMetrics сохраняет снимок, заменяя существующий с той же парой (date, period).
func (s *Storage) UpsertRevenueMetrics(ctx context.Context, m *models.RevenueMetrics) error {
	const op = "storage.UpsertRevenueMetrics"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO revenue_metrics (date, period, metrics, calculated_at)
			  VALUES ($1::date, $2, $3::jsonb, $4)
			  ON CONFLICT (date, period)
			  DO UPDATE SET metrics = EXCLUDED.metrics, calculated_at = EXCLUDED.calculated_at`
	if _, err := s.DB.ExecContext(ctx, query, m.Date, m.Period, string(payload), m.CalculatedAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRevenueMetrics(row rowScanner) (*models.RevenueMetrics, error) {
	var (
		m            models.RevenueMetrics
		date         time.Time
		period       string
		payload      []byte
		calculatedAt time.Time
	)
	if err := row.Scan(&date, &period, &payload, &calculatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	m.Date = date.UTC()
	m.Period = period
	m.CalculatedAt = calculatedAt.UTC()
	return &m, nil
}
