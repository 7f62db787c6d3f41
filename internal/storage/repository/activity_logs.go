package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/roadside-billing/internal/models"
)

// CreateActivityLog сохраняет запись журнала аудита.
func (s *Storage) CreateActivityLog(ctx context.Context, entry models.ActivityLog) error {
	const op = "storage.CreateActivityLog"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	changes := entry.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	payload, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	severity := entry.Severity
	if severity == "" {
		severity = models.SeverityLow
	}

	query := `INSERT INTO activity_logs
			      (action, performed_by, target_model, target_id, changes, ip_address, user_agent, severity)
			  VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8)`
	_, err = s.DB.ExecContext(ctx, query, entry.Action, entry.PerformedBy, entry.TargetModel,
		entry.TargetID, string(payload), entry.IPAddress, entry.UserAgent, severity)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
