package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы платежа.
const (
	PaymentPending   = "pending"
	PaymentSuccess   = "success"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
	PaymentCancelled = "cancelled"
)

// Типы платежа.
const (
	PaymentTypePayment = "payment"
	PaymentTypeRefund  = "refund"
)

// DefaultCurrency валюта платежей по умолчанию.
const DefaultCurrency = "BDT"

// PaymentRefund сведения о возврате по платежу.
type PaymentRefund struct {
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
	ProcessedAt   time.Time       `json:"processed_at"`
	TransactionID string          `json:"transaction_id"`
}

// Payment платёж пользователя, в том числе запись о возврате в кошелёк.
type Payment struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	BookingID         uuid.NullUUID   `json:"booking_id"`
	SubscriptionID    uuid.NullUUID   `json:"subscription_id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	PaymentMethod     string          `json:"payment_method"`
	TransactionID     string          `json:"transaction_id"`
	Refund            *PaymentRefund  `json:"refund,omitempty"`
	OriginalPaymentID uuid.NullUUID   `json:"original_payment_id"`
	Description       string          `json:"description,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
