// Package services ведёт журнал аудита действий с деньгами.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
)

type Repository interface {
	CreateActivityLog(ctx context.Context, entry models.ActivityLog) error
}

// AuditLogger пишет записи аудита. Сбой записи логируется и не прерывает операцию.
type AuditLogger struct {
	repo Repository
	log  *slog.Logger
}

func NewAuditLogger(repo Repository, log *slog.Logger) *AuditLogger {
	return &AuditLogger{repo: repo, log: log}
}

// Log сохраняет запись аудита.
func (a *AuditLogger) Log(ctx context.Context, entry models.ActivityLog) {
	const op = "audit.Log"
	if entry.Severity == "" {
		entry.Severity = models.SeverityLow
	}
	// запись аудита не должна теряться из-за отмены запроса, который её породил
	ctx = context.WithoutCancel(ctx)
	if err := a.repo.CreateActivityLog(ctx, entry); err != nil {
		a.log.Error("failed to write audit log",
			sl.Op(op),
			slog.String("action", entry.Action),
			slog.String("target_id", entry.TargetID),
			sl.Err(err),
		)
	}
}
