package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы подписки.
const (
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
	SubscriptionPending   = "pending"
)

// Периоды оплаты подписки.
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Типы изменения тарифа в истории подписки.
const (
	PlanChangeInitial   = "initial"
	PlanChangeUpgrade   = "upgrade"
	PlanChangeDowngrade = "downgrade"
)

// Plan описывает тариф.
type Plan struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Tier         string    `json:"tier"` // free, basic, standard, premium, enterprise, trial
	PriceMonthly float64   `json:"price_monthly"`
	PriceYearly  float64   `json:"price_yearly"`
}

// PlanChange запись истории смены тарифа. Price это месячная стоимость тарифа после смены.
type PlanChange struct {
	PlanID     uuid.UUID `json:"plan_id"`
	Price      float64   `json:"price"`
	ChangedAt  time.Time `json:"changed_at"`
	ChangeType string    `json:"change_type"`
}

// Subscription подписка пользователя на тариф вместе с историей смены тарифа.
type Subscription struct {
	ID               uuid.UUID    `json:"id"`
	UserID           uuid.UUID    `json:"user_id"`
	Plan             Plan         `json:"plan"`
	Status           string       `json:"status"`
	BillingCycle     string       `json:"billing_cycle"`
	StartDate        time.Time    `json:"start_date"`
	EndDate          time.Time    `json:"end_date"`
	CancellationDate *time.Time   `json:"cancellation_date,omitempty"`
	PlanHistory      []PlanChange `json:"plan_history,omitempty"` // Отсортирована по ChangedAt
}

// MonthlyAmount возвращает вклад подписки в MRR.
func (s Subscription) MonthlyAmount() float64 {
	if s.BillingCycle == BillingYearly {
		return s.Plan.PriceYearly / 12
	}
	return s.Plan.PriceMonthly
}
