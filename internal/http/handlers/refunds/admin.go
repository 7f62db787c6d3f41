package refunds

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/roadside-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/roadside-billing/internal/http/response"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	refundservice "github.com/magabrotheeeer/roadside-billing/internal/services/refund"
)

// AdminRequest ручной возврат. Нужна либо refund_amount, либо dispute_resolution.
type AdminRequest struct {
	UserID            string              `json:"user_id" validate:"required,uuid"`
	BookingID         string              `json:"booking_id,omitempty" validate:"omitempty,uuid"`
	PaymentID         string              `json:"payment_id" validate:"required,uuid"`
	RefundAmount      decimal.NullDecimal `json:"refund_amount" swaggertype:"string" example:"250.00"`
	DisputeResolution string              `json:"dispute_resolution,omitempty" validate:"omitempty,oneof=full partial none"`
	Reason            string              `json:"reason" validate:"max=500"`
}

// AdminResponse итог ручного возврата.
type AdminResponse struct {
	response.Response
	Refund *models.WalletRefundResult `json:"refund"`
}

// AdminRefunder выполняет ручной возврат.
type AdminRefunder interface {
	ProcessAdminRefund(ctx context.Context, req refundservice.AdminRefund) (*models.WalletRefundResult, error)
}

// AdminHandler принимает ручные возвраты и возвраты по итогам споров.
type AdminHandler struct {
	log      *slog.Logger
	service  AdminRefunder
	validate *validator.Validate
}

// NewAdminHandler создает новый экземпляр AdminHandler.
func NewAdminHandler(log *slog.Logger, service AdminRefunder) *AdminHandler {
	return &AdminHandler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Ручной возврат на кошелёк
// @Description Зачисляет возврат на кошелёк пользователя. Сумма задаётся явно или по решению спора (full, partial, none).
// @Tags Refunds
// @Accept json
// @Produce json
// @Param request body AdminRequest true "Параметры возврата"
// @Success 200 {object} AdminResponse
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь или платёж не найден"
// @Failure 409 {object} response.ErrorResponse "Платёж уже возвращён"
// @Failure 422 {object} response.ErrorResponse "Сумма некорректна или превышает платёж"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /api/v1/admin/refunds [post]
func (h *AdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.refunds.admin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req AdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Warn("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		response.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.RefundAmount.Valid && req.DisputeResolution == "" {
		response.WriteError(w, r, http.StatusUnprocessableEntity, "refund_amount or dispute_resolution is required")
		return
	}

	refund := refundservice.AdminRefund{
		UserID:            uuid.MustParse(req.UserID),
		PaymentID:         uuid.MustParse(req.PaymentID),
		Amount:            req.RefundAmount,
		DisputeResolution: req.DisputeResolution,
		Reason:            req.Reason,
		ProcessedBy:       performedBy(r.Context()),
	}
	if req.BookingID != "" {
		refund.BookingID = uuid.NullUUID{UUID: uuid.MustParse(req.BookingID), Valid: true}
	}

	result, err := h.service.ProcessAdminRefund(r.Context(), refund)
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("failed to process refund", sl.Err(err))
		} else {
			log.Warn("refund rejected", sl.Err(err))
		}
		response.WriteError(w, r, status, msg)
		return
	}

	render.JSON(w, r, AdminResponse{Response: response.OK(), Refund: result})
}

func performedBy(ctx context.Context) uuid.NullUUID {
	id, ok := middlewarectx.UserIDFromContext(ctx)
	if !ok {
		return uuid.NullUUID{}
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: parsed, Valid: true}
}
