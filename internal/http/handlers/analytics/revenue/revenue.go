// Package revenue реализует HTTP-обработчики аналитики выручки:
// чтение отчёта (GET) и принудительный расчёт снимка (POST).
package revenue

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/roadside-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/roadside-billing/internal/http/response"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	analyticsservice "github.com/magabrotheeeer/roadside-billing/internal/services/analytics"
)

// Значения запроса по умолчанию.
const (
	DefaultPeriod = models.PeriodMonthly
	DefaultMonths = 6
)

// Service описывает методы аналитики выручки.
type Service interface {
	Revenue(ctx context.Context, period string, months int) (*analyticsservice.RevenueReport, error)
	Snapshot(ctx context.Context) (*models.RevenueMetrics, error)
}

// Auditor пишет журнал аудита.
type Auditor interface {
	Log(ctx context.Context, entry models.ActivityLog)
}

// GetResponse отчёт о выручке.
type GetResponse struct {
	Success    bool                    `json:"success"`
	Cached     bool                    `json:"cached,omitempty"`
	Current    *models.RevenueMetrics  `json:"current"`
	Historical []models.MetricsSummary `json:"historical"`
	Message    string                  `json:"message,omitempty"`
}

// ComputeResponse результат расчёта снимка.
type ComputeResponse struct {
	response.Response
	Metrics *models.RevenueMetrics `json:"metrics"`
}

// GetHandler отдаёт отчёт о выручке.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGetHandler создает новый экземпляр GetHandler.
func NewGetHandler(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Аналитика выручки
// @Description Текущие метрики (MRR, ARR, ARPU, LTV, отток, прогноз) и исторический ряд снимков. Только для администраторов.
// @Tags Analytics
// @Produce json
// @Param period query string false "Период снимков" Enums(daily, weekly, monthly, yearly) default(monthly)
// @Param months query int false "Глубина истории в месяцах" default(6)
// @Success 200 {object} GetResponse
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 429 {object} response.ErrorResponse "Превышен лимит запросов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /api/v1/analytics/revenue [get]
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.revenue.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	period := r.URL.Query().Get("period")
	if period == "" {
		period = DefaultPeriod
	}
	months := DefaultMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("invalid months parameter", slog.String("months", raw))
			response.WriteError(w, r, http.StatusBadRequest, "months must be an integer")
			return
		}
		months = n
	}

	report, err := h.service.Revenue(r.Context(), period, months)
	switch {
	case errors.Is(err, analyticsservice.ErrInvalidPeriod):
		log.Warn("invalid revenue query", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, analyticsservice.ErrInvalidPeriod.Error())
		return
	case errors.Is(err, analyticsservice.ErrInvalidMonths):
		log.Warn("invalid revenue query", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, analyticsservice.ErrInvalidMonths.Error())
		return
	case err != nil:
		log.Error("failed to build revenue report", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.JSON(w, r, GetResponse{
		Success:    true,
		Cached:     report.Cached,
		Current:    report.Current,
		Historical: report.Historical,
		Message:    report.Message,
	})
}

// ComputeHandler рассчитывает и сохраняет снимок метрик.
type ComputeHandler struct {
	log     *slog.Logger
	service Service
	audit   Auditor
}

// NewComputeHandler создает новый экземпляр ComputeHandler.
func NewComputeHandler(log *slog.Logger, service Service, audit Auditor) *ComputeHandler {
	return &ComputeHandler{log: log, service: service, audit: audit}
}

// ServeHTTP godoc
// @Summary Расчёт снимка метрик выручки
// @Description Считает метрики на текущий момент и сохраняет снимок (сегодня, monthly). Только для администраторов.
// @Tags Analytics
// @Produce json
// @Success 200 {object} ComputeResponse
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /api/v1/analytics/revenue [post]
func (h *ComputeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.revenue.compute"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	m, err := h.service.Snapshot(r.Context())
	if err != nil {
		log.Error("failed to calculate revenue metrics", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	var performedBy uuid.NullUUID
	if id, ok := middlewarectx.UserIDFromContext(r.Context()); ok {
		if parsed, err := uuid.Parse(id); err == nil {
			performedBy = uuid.NullUUID{UUID: parsed, Valid: true}
		}
	}
	h.audit.Log(r.Context(), models.ActivityLog{
		Action:      models.AuditMetricsComputed,
		PerformedBy: performedBy,
		TargetModel: "RevenueMetrics",
		TargetID:    m.Date.Format("2006-01-02"),
		Changes:     map[string]any{"period": m.Period, "mrr": m.MRR.Total},
		IPAddress:   r.RemoteAddr,
		UserAgent:   r.UserAgent(),
		Severity:    models.SeverityMedium,
	})

	log.Info("revenue metrics calculated", slog.Float64("mrr", m.MRR.Total))
	render.JSON(w, r, ComputeResponse{
		Response: response.OKWithMessage("Revenue metrics calculated and stored"),
		Metrics:  m,
	})
}
