package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/roadside-billing/internal/models"
	"github.com/magabrotheeeer/roadside-billing/internal/storage"
)

const paymentColumns = `id, user_id, booking_id, subscription_id, type, amount, currency, status,
	payment_method, transaction_id, refund_amount, refund_reason, refund_processed_at,
	refund_transaction_id, original_payment_id, description, paid_at, created_at`

func scanPayment(row rowScanner) (*models.Payment, error) {
	var (
		p                 models.Payment
		refundAmount      decimal.NullDecimal
		refundReason      sql.NullString
		refundProcessedAt sql.NullTime
		refundTxID        sql.NullString
		paidAt            sql.NullTime
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.BookingID, &p.SubscriptionID, &p.Type, &p.Amount,
		&p.Currency, &p.Status, &p.PaymentMethod, &p.TransactionID, &refundAmount, &refundReason,
		&refundProcessedAt, &refundTxID, &p.OriginalPaymentID, &p.Description, &paidAt,
		&p.CreatedAt); err != nil {
		return nil, err
	}
	if refundAmount.Valid {
		p.Refund = &models.PaymentRefund{
			Amount:        refundAmount.Decimal,
			Reason:        refundReason.String,
			ProcessedAt:   refundProcessedAt.Time.UTC(),
			TransactionID: refundTxID.String,
		}
	}
	if paidAt.Valid {
		t := paidAt.Time.UTC()
		p.PaidAt = &t
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

// GetPayment возвращает платёж по id.
func (s *Storage) GetPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, paymentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPaymentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// FindSuccessfulBookingPayment возвращает успешный платёж за бронирование.
// Отсутствие платежа отдаётся как (nil, nil).
func (s *Storage) FindSuccessfulBookingPayment(ctx context.Context, bookingID uuid.UUID) (*models.Payment, error) {
	const op = "storage.FindSuccessfulBookingPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE booking_id = $1 AND status = 'success' AND type = 'payment'
			  ORDER BY created_at DESC
			  LIMIT 1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetBooking возвращает бронирование по id.
func (s *Storage) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	const op = "storage.GetBooking"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, garage_id, status, scheduled_at, cancelled_at,
			      estimated_cost, actual_cost, created_at
			  FROM bookings
			  WHERE id = $1`
	var (
		b                        models.Booking
		scheduledAt, cancelledAt sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, bookingID).Scan(&b.ID, &b.UserID, &b.GarageID, &b.Status,
		&scheduledAt, &cancelledAt, &b.EstimatedCost, &b.ActualCost, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrBookingNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time.UTC()
		b.ScheduledAt = &t
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time.UTC()
		b.CancelledAt = &t
	}
	return &b, nil
}

// RefundToWallet в одной транзакции блокирует пользователя и платёж, вызывает validate
// над заблокированными строками, пополняет кошелёк, помечает платёж возвращённым
// и создаёт платёж-возврат.
// Любая ошибка откатывает все изменения.
func (s *Storage) RefundToWallet(ctx context.Context, req models.WalletRefund, validate func(user *models.User, payment *models.Payment) error) (*models.WalletRefundResult, error) {
	const op = "storage.RefundToWallet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	user, err := scanUser(tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, req.UserID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1 FOR UPDATE`, req.PaymentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrPaymentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if validate != nil {
		if err := validate(user, payment); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	now := time.Now().UTC()
	refundTxID := "REFUND-" + uuid.NewString()

	var newBalance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`UPDATE users SET wallet_balance = wallet_balance + $2 WHERE id = $1 RETURNING wallet_balance`,
		req.UserID, req.Amount).Scan(&newBalance)
	if err != nil {
		return nil, fmt.Errorf("%s: update wallet: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE payments
		SET status = 'refunded', refund_amount = $2, refund_reason = $3,
		    refund_processed_at = $4, refund_transaction_id = $5
		WHERE id = $1`,
		req.PaymentID, req.Amount, req.Reason, now, refundTxID)
	if err != nil {
		return nil, fmt.Errorf("%s: update payment: %w", op, err)
	}

	refundPayment := &models.Payment{
		UserID:            req.UserID,
		BookingID:         req.BookingID,
		Type:              models.PaymentTypeRefund,
		Amount:            req.Amount,
		Currency:          models.DefaultCurrency,
		Status:            models.PaymentSuccess,
		PaymentMethod:     "wallet",
		TransactionID:     refundTxID,
		OriginalPaymentID: uuid.NullUUID{UUID: req.PaymentID, Valid: true},
		Description:       "Refund for booking: " + req.Reason,
		PaidAt:            &now,
	}
	err = tx.QueryRowContext(ctx, `INSERT INTO payments
		(user_id, booking_id, type, amount, currency, status, payment_method, transaction_id,
		 original_payment_id, description, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		refundPayment.UserID, refundPayment.BookingID, refundPayment.Type, refundPayment.Amount,
		refundPayment.Currency, refundPayment.Status, refundPayment.PaymentMethod,
		refundPayment.TransactionID, refundPayment.OriginalPaymentID, refundPayment.Description,
		now).Scan(&refundPayment.ID, &refundPayment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: insert refund payment: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.WalletRefundResult{
		RefundAmount:     req.Amount,
		PreviousBalance:  user.WalletBalance,
		NewWalletBalance: newBalance,
		RefundPayment:    refundPayment,
	}, nil
}
