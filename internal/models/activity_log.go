package models

import (
	"time"

	"github.com/google/uuid"
)

// Действия журнала аудита.
const (
	AuditPaymentRefunded = "payment_refunded"
	AuditMetricsComputed = "revenue_metrics_calculated"
)

// Уровни важности записей аудита.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ActivityLog запись журнала аудита.
type ActivityLog struct {
	ID          uuid.UUID      `json:"id"`
	Action      string         `json:"action"`
	PerformedBy uuid.NullUUID  `json:"performed_by"`
	TargetModel string         `json:"target_model"`
	TargetID    string         `json:"target_id"`
	Changes     map[string]any `json:"changes"`
	IPAddress   string         `json:"ip_address"`
	UserAgent   string         `json:"user_agent"`
	Severity    string         `json:"severity"`
	CreatedAt   time.Time      `json:"created_at"`
}
