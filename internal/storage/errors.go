// Package storage содержит ошибки уровня хранилища, общие для репозитория и сервисов.
package storage

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrMetricsNotFound        = errors.New("revenue metrics not found")
	ErrPaymentAlreadyRefunded = errors.New("payment already refunded")
	ErrRefundExceedsPayment   = errors.New("refund amount cannot exceed payment amount")
	ErrInvalidRefundAmount    = errors.New("refund amount must be positive")
	ErrPaymentNotRefundable   = errors.New("only successful payments can be refunded")
	ErrPaymentOwnerMismatch   = errors.New("payment does not belong to user")
)
