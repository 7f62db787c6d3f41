package refunds

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/roadside-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/roadside-billing/internal/http/response"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	refundservice "github.com/magabrotheeeer/roadside-billing/internal/services/refund"
)

// BookingResponse итог автоматического возврата.
type BookingResponse struct {
	Success bool `json:"success"`
	*refundservice.AutomatedRefundResult
}

// AutomatedRefunder выполняет возврат по отменённому бронированию.
type AutomatedRefunder interface {
	ProcessAutomatedRefund(ctx context.Context, bookingID uuid.UUID, cancelledBy uuid.NullUUID) (*refundservice.AutomatedRefundResult, error)
}

// BookingReader читает бронирование для проверки владельца.
type BookingReader interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
}

// BookingHandler запускает автоматический возврат по бронированию.
type BookingHandler struct {
	log      *slog.Logger
	service  AutomatedRefunder
	bookings BookingReader
}

// NewBookingHandler создает новый экземпляр BookingHandler.
func NewBookingHandler(log *slog.Logger, service AutomatedRefunder, bookings BookingReader) *BookingHandler {
	return &BookingHandler{log: log, service: service, bookings: bookings}
}

// ServeHTTP godoc
// @Summary Возврат по отменённому бронированию
// @Description Считает возврат по тарифной сетке отмены и зачисляет его на кошелёк. Доступно администратору или владельцу бронирования.
// @Tags Refunds
// @Produce json
// @Param id path string true "ID бронирования"
// @Success 200 {object} BookingResponse
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Чужое бронирование"
// @Failure 404 {object} response.ErrorResponse "Бронирование не найдено"
// @Failure 409 {object} response.ErrorResponse "Платёж уже возвращён"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/refund [post]
func (h *BookingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.refunds.booking"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bookingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, http.StatusBadRequest, "invalid booking id")
		return
	}

	if middlewarectx.RoleFromContext(r.Context()) != models.RoleAdmin {
		booking, err := h.bookings.GetBooking(r.Context(), bookingID)
		if err != nil {
			status, msg := statusFor(err)
			if status == http.StatusInternalServerError {
				log.Error("failed to load booking", sl.Err(err))
			}
			response.WriteError(w, r, status, msg)
			return
		}
		userID, _ := middlewarectx.UserIDFromContext(r.Context())
		if booking.UserID.String() != userID {
			log.Warn("refund requested for foreign booking", slog.String("user_id", userID))
			response.WriteError(w, r, http.StatusForbidden, "Not authorized to refund this booking")
			return
		}
	}

	result, err := h.service.ProcessAutomatedRefund(r.Context(), bookingID, performedBy(r.Context()))
	if err != nil {
		status, msg := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Error("automated refund failed", sl.Err(err))
		} else {
			log.Warn("automated refund rejected", sl.Err(err))
		}
		response.WriteError(w, r, status, msg)
		return
	}

	log.Info("automated refund handled",
		slog.String("booking_id", bookingID.String()),
		slog.String("result", result.Message))
	render.JSON(w, r, BookingResponse{Success: true, AutomatedRefundResult: result})
}
