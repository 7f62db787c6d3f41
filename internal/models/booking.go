package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы бронирования.
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking заявка пользователя на помощь на дороге, выполняемая гаражом.
type Booking struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	GarageID      uuid.UUID       `json:"garage_id"`
	Status        string          `json:"status"`
	ScheduledAt   *time.Time      `json:"scheduled_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	ActualCost    decimal.Decimal `json:"actual_cost"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BookingCancelledEvent событие отмены бронирования из очереди.
type BookingCancelledEvent struct {
	BookingID   uuid.UUID     `json:"booking_id"`
	CancelledBy uuid.NullUUID `json:"cancelled_by"`
}
