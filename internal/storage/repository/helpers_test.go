package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/roadside-billing/internal/migrations"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgPort := nat.Port("5432/tcp")
	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{string(pgPort)},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(pgPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, pgPort)
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(ctx, connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))
	require.NoError(t, storage.CheckDatabaseReady(ctx))
	return storage
}

// testDataFactory создаёт тестовые записи напрямую через SQL.
type testDataFactory struct {
	storage *Storage
}

func newTestDataFactory(storage *Storage) *testDataFactory {
	return &testDataFactory{storage: storage}
}

func (f *testDataFactory) createUser(t *testing.T, email, role string, balance string, createdAt time.Time) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := f.storage.DB.QueryRow(`INSERT INTO users (name, email, password_hash, role, wallet_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		"Test "+role, email, "hash", role, balance, createdAt).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createPlan(t *testing.T, tier string, monthly, yearly float64) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := f.storage.DB.QueryRow(`INSERT INTO plans (name, tier, price_monthly, price_yearly)
		VALUES ($1, $2, $3, $4) RETURNING id`, tier+" plan", tier, monthly, yearly).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createSubscription(t *testing.T, userID, planID uuid.UUID, status, cycle string,
	start, end time.Time, cancelledAt *time.Time) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions
		(user_id, plan_id, status, billing_cycle, start_date, end_date, cancellation_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		userID, planID, status, cycle, start, end, cancelledAt).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) addPlanChange(t *testing.T, subID, planID uuid.UUID, price float64, changedAt time.Time, changeType string) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO subscription_plan_history
		(subscription_id, plan_id, price, changed_at, change_type) VALUES ($1, $2, $3, $4, $5)`,
		subID, planID, price, changedAt, changeType)
	require.NoError(t, err)
}

func (f *testDataFactory) createBooking(t *testing.T, userID uuid.UUID, status string, actualCost string,
	scheduledAt *time.Time, createdAt time.Time) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := f.storage.DB.QueryRow(`INSERT INTO bookings
		(user_id, garage_id, status, scheduled_at, actual_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		userID, uuid.New(), status, scheduledAt, actualCost, createdAt).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createPayment(t *testing.T, userID uuid.UUID, bookingID uuid.NullUUID, amount decimal.Decimal, status string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := f.storage.DB.QueryRow(`INSERT INTO payments
		(user_id, booking_id, type, amount, status, payment_method, transaction_id)
		VALUES ($1, $2, 'payment', $3, $4, 'card', $5) RETURNING id`,
		userID, bookingID, amount, status, "TX-"+uuid.NewString()).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) walletBalance(t *testing.T, userID uuid.UUID) decimal.Decimal {
	t.Helper()
	var balance decimal.Decimal
	require.NoError(t, f.storage.DB.QueryRow(`SELECT wallet_balance FROM users WHERE id = $1`, userID).Scan(&balance))
	return balance
}

func (f *testDataFactory) countRefundPayments(t *testing.T, originalID uuid.UUID) int {
	t.Helper()
	var n int
	require.NoError(t, f.storage.DB.QueryRow(
		`SELECT COUNT(*) FROM payments WHERE original_payment_id = $1 AND type = 'refund'`, originalID).Scan(&n))
	return n
}
