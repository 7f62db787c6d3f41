// Package models содержит доменные структуры биллинга: пользователей, тарифы,
// подписки, платежи, бронирования, снимки метрик выручки и журнал аудита.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Роли пользователей.
const (
	RoleUser     = "user"
	RoleGarage   = "garage"
	RoleMechanic = "mechanic"
	RoleAdmin    = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PasswordHash  string          `json:"-"`
	Role          string          `json:"role"`
	WalletBalance decimal.Decimal `json:"wallet_balance"` // Баланс кошелька, пополняется возвратами
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}
