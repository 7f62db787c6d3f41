package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/roadside-billing/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateActivityLog(ctx context.Context, entry models.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func TestAuditLogger_Log(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateActivityLog", mock.Anything, mock.MatchedBy(func(e models.ActivityLog) bool {
		return e.Action == models.AuditPaymentRefunded && e.Severity == models.SeverityLow
	})).Return(nil).Once()

	var buf bytes.Buffer
	a := NewAuditLogger(repo, slog.New(slog.NewTextHandler(&buf, nil)))
	a.Log(context.Background(), models.ActivityLog{Action: models.AuditPaymentRefunded})

	repo.AssertExpectations(t)
	assert.Empty(t, buf.String())
}

func TestAuditLogger_LogSwallowsErrors(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CreateActivityLog", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once()

	var buf bytes.Buffer
	a := NewAuditLogger(repo, slog.New(slog.NewTextHandler(&buf, nil)))

	assert.NotPanics(t, func() {
		a.Log(context.Background(), models.ActivityLog{Action: models.AuditPaymentRefunded, Severity: models.SeverityHigh})
	})
	assert.Contains(t, buf.String(), "failed to write audit log")
	assert.Contains(t, buf.String(), "insert failed")
}

func TestAuditLogger_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := new(RepoMock)
	repo.On("CreateActivityLog", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil).Once()

	NewAuditLogger(repo, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).
		Log(ctx, models.ActivityLog{Action: models.AuditMetricsComputed})
	repo.AssertExpectations(t)
}
