package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletRefund параметры зачисления возврата на кошелёк пользователя.
type WalletRefund struct {
	UserID      uuid.UUID
	BookingID   uuid.NullUUID
	PaymentID   uuid.UUID
	Amount      decimal.Decimal
	Reason      string
	ProcessedBy uuid.NullUUID
}

// WalletRefundResult итог зачисления возврата.
type WalletRefundResult struct {
	RefundAmount     decimal.Decimal `json:"refundAmount"`
	PreviousBalance  decimal.Decimal `json:"previousBalance"`
	NewWalletBalance decimal.Decimal `json:"newWalletBalance"`
	RefundPayment    *Payment        `json:"refundPayment"`
}

// RefundProcessedEvent событие об успешном возврате.
type RefundProcessedEvent struct {
	PaymentID       uuid.UUID       `json:"payment_id"`
	RefundPaymentID uuid.UUID       `json:"refund_payment_id"`
	UserID          uuid.UUID       `json:"user_id"`
	BookingID       uuid.NullUUID   `json:"booking_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
}
