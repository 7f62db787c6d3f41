package refunds

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/roadside-billing/internal/http/response"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/refundpolicy"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
)

// QuoteRequest параметры расчёта возврата. Пустой cancelled_at означает отмену сейчас.
type QuoteRequest struct {
	PaidAmount  decimal.Decimal `json:"paid_amount" swaggertype:"string" example:"1000.00"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

// QuoteResponse результат расчёта.
type QuoteResponse struct {
	response.Response
	Calculation refundpolicy.Calculation `json:"calculation"`
}

// Quoter рассчитывает возврат без записи в хранилище.
type Quoter interface {
	Quote(paid decimal.Decimal, scheduledAt time.Time, cancelledAt *time.Time) refundpolicy.Calculation
}

// QuoteHandler считает сумму возврата при отмене бронирования.
type QuoteHandler struct {
	log     *slog.Logger
	service Quoter
}

// NewQuoteHandler создает новый экземпляр QuoteHandler.
func NewQuoteHandler(log *slog.Logger, service Quoter) *QuoteHandler {
	return &QuoteHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Расчёт возврата при отмене
// @Description Процент возврата по времени до начала обслуживания за вычетом комиссии 2%.
// @Tags Refunds
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Сумма оплаты и время"
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /api/v1/refunds/quote [post]
func (h *QuoteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.refunds.quote"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.PaidAmount.IsPositive() {
		response.WriteError(w, r, http.StatusUnprocessableEntity, "field paid_amount must be positive")
		return
	}
	if req.ScheduledAt.IsZero() {
		response.WriteError(w, r, http.StatusUnprocessableEntity, "field scheduled_at is a required field")
		return
	}

	calc := h.service.Quote(req.PaidAmount, req.ScheduledAt, req.CancelledAt)
	render.JSON(w, r, QuoteResponse{Response: response.OK(), Calculation: calc})
}
