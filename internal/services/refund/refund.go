// Package services реализует возвраты на кошелёк: ручные, по итогам спора
// и автоматические при отмене бронирования.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/roadside-billing/internal/lib/metrics"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/refundpolicy"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	"github.com/magabrotheeeer/roadside-billing/internal/storage"
)

// Сообщения результата автоматического возврата.
const (
	MsgNoPayment       = "No payment to refund"
	MsgNoRefund        = "No refund applicable"
	MsgRefundProcessed = "Refund processed"
)

// Repository определяет методы хранилища, нужные для возвратов.
type Repository interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	GetPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error)
	// FindSuccessfulBookingPayment возвращает (nil, nil), если оплаты нет.
	FindSuccessfulBookingPayment(ctx context.Context, bookingID uuid.UUID) (*models.Payment, error)
	// RefundToWallet атомарно зачисляет возврат; validate вызывается внутри транзакции.
	RefundToWallet(ctx context.Context, req models.WalletRefund, validate func(user *models.User, payment *models.Payment) error) (*models.WalletRefundResult, error)
}

// Auditor пишет журнал аудита и не возвращает ошибок.
type Auditor interface {
	Log(ctx context.Context, entry models.ActivityLog)
}

// Publisher публикует события биллинга.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg any) error
}

// AutomatedRefundResult итог автоматического возврата по отменённому бронированию.
type AutomatedRefundResult struct {
	Message string `json:"message"`
	*models.WalletRefundResult
	RefundCalculation *refundpolicy.Calculation `json:"refundCalculation,omitempty"`
}

// AdminRefund ручной возврат администратором. Если Amount не задан,
// сумма определяется по DisputeResolution от суммы платежа.
type AdminRefund struct {
	UserID            uuid.UUID
	BookingID         uuid.NullUUID
	PaymentID         uuid.UUID
	Amount            decimal.NullDecimal
	DisputeResolution string
	Reason            string
	ProcessedBy       uuid.NullUUID
}

// RefundService обрабатывает возвраты.
type RefundService struct {
	repo      Repository
	audit     Auditor
	publisher Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// NewRefundService создает новый экземпляр RefundService. publisher может быть nil,
// тогда события о возвратах не публикуются.
func NewRefundService(repo Repository, audit Auditor, publisher Publisher, m *metrics.Metrics, log *slog.Logger) *RefundService {
	return &RefundService{
		repo:      repo,
		audit:     audit,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// IsRejection сообщает, что возврат отклонён по бизнес-правилу, а не из-за сбоя.
func IsRejection(err error) bool {
	return errors.Is(err, storage.ErrUserNotFound) ||
		errors.Is(err, storage.ErrPaymentNotFound) ||
		errors.Is(err, storage.ErrBookingNotFound) ||
		errors.Is(err, storage.ErrPaymentAlreadyRefunded) ||
		errors.Is(err, storage.ErrRefundExceedsPayment) ||
		errors.Is(err, storage.ErrInvalidRefundAmount) ||
		errors.Is(err, storage.ErrPaymentNotRefundable) ||
		errors.Is(err, storage.ErrPaymentOwnerMismatch) ||
		errors.Is(err, refundpolicy.ErrUnknownResolution)
}

// ProcessRefundToWallet зачисляет возврат на кошелёк пользователя.
// Все изменения выполняются в одной транзакции; аудит и событие пишутся после фиксации.
func (s *RefundService) ProcessRefundToWallet(ctx context.Context, req models.WalletRefund) (*models.WalletRefundResult, error) {
	const op = "refund.ProcessRefundToWallet"
	log := s.log.With(sl.Op(op), slog.String("payment_id", req.PaymentID.String()))

	if !req.Amount.IsPositive() {
		s.metrics.RefundProcessed(metrics.OutcomeRejected, 0)
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidRefundAmount)
	}

	validate := func(user *models.User, payment *models.Payment) error {
		if payment.Status == models.PaymentRefunded {
			return storage.ErrPaymentAlreadyRefunded
		}
		// Возвращается только исходный успешный платёж самого пользователя.
		if payment.Type != models.PaymentTypePayment || payment.Status != models.PaymentSuccess {
			return storage.ErrPaymentNotRefundable
		}
		if payment.UserID != user.ID {
			return storage.ErrPaymentOwnerMismatch
		}
		if req.Amount.GreaterThan(payment.Amount) {
			return storage.ErrRefundExceedsPayment
		}
		return nil
	}

	result, err := s.repo.RefundToWallet(ctx, req, validate)
	if err != nil {
		if IsRejection(err) {
			s.metrics.RefundProcessed(metrics.OutcomeRejected, 0)
		} else {
			s.metrics.RefundProcessed(metrics.OutcomeFailed, 0)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	amount, _ := result.RefundAmount.Float64()
	s.metrics.RefundProcessed(metrics.OutcomeSuccess, amount)

	s.audit.Log(ctx, models.ActivityLog{
		Action:      models.AuditPaymentRefunded,
		PerformedBy: req.ProcessedBy,
		TargetModel: "Payment",
		TargetID:    req.PaymentID.String(),
		Changes: map[string]any{
			"refundAmount": result.RefundAmount.String(),
			"reason":       req.Reason,
			"walletBalance": map[string]string{
				"before": result.PreviousBalance.String(),
				"after":  result.NewWalletBalance.String(),
			},
			"refundPaymentId": result.RefundPayment.ID.String(),
		},
		Severity: models.SeverityHigh,
	})

	s.publish(ctx, models.RefundProcessedEvent{
		PaymentID:       req.PaymentID,
		RefundPaymentID: result.RefundPayment.ID,
		UserID:          req.UserID,
		BookingID:       req.BookingID,
		Amount:          result.RefundAmount,
		Reason:          req.Reason,
	})

	log.Info("refund credited to wallet",
		slog.String("user_id", req.UserID.String()),
		slog.String("amount", result.RefundAmount.String()),
	)
	return result, nil
}

func (s *RefundService) publish(ctx context.Context, event models.RefundProcessedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingRefundProcessed, event); err != nil {
		s.log.Warn("failed to publish refund event",
			slog.String("payment_id", event.PaymentID.String()), sl.Err(err))
	}
}

// ProcessAdminRefund выполняет ручной возврат. Сумма берётся из запроса
// или рассчитывается по решению спора от суммы исходного платежа.
func (s *RefundService) ProcessAdminRefund(ctx context.Context, req AdminRefund) (*models.WalletRefundResult, error) {
	const op = "refund.ProcessAdminRefund"

	amount := req.Amount.Decimal
	if !req.Amount.Valid {
		payment, err := s.repo.GetPayment(ctx, req.PaymentID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		amount, err = refundpolicy.DisputeRefund(payment.Amount, req.DisputeResolution)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	reason := req.Reason
	if reason == "" && req.DisputeResolution != "" {
		reason = "Dispute resolved: " + req.DisputeResolution
	}

	result, err := s.ProcessRefundToWallet(ctx, models.WalletRefund{
		UserID:      req.UserID,
		BookingID:   req.BookingID,
		PaymentID:   req.PaymentID,
		Amount:      amount,
		Reason:      reason,
		ProcessedBy: req.ProcessedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Quote рассчитывает возврат при отмене без записи в хранилище.
// Пустой cancelledAt означает отмену сейчас.
func (s *RefundService) Quote(paid decimal.Decimal, scheduledAt time.Time, cancelledAt *time.Time) refundpolicy.Calculation {
	at := s.now()
	if cancelledAt != nil {
		at = *cancelledAt
	}
	return refundpolicy.CalculateCancellationRefund(paid, scheduledAt, at)
}

// ProcessAutomatedRefund возвращает деньги за отменённое бронирование по тарифной сетке отмены.
func (s *RefundService) ProcessAutomatedRefund(ctx context.Context, bookingID uuid.UUID, cancelledBy uuid.NullUUID) (*AutomatedRefundResult, error) {
	const op = "refund.ProcessAutomatedRefund"
	log := s.log.With(sl.Op(op), slog.String("booking_id", bookingID.String()))

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment, err := s.repo.FindSuccessfulBookingPayment(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payment == nil {
		log.Info("no successful payment found for booking, skipping refund")
		return &AutomatedRefundResult{Message: MsgNoPayment}, nil
	}

	now := s.now()
	scheduledAt, cancelledAt := now, now
	if booking.ScheduledAt != nil {
		scheduledAt = *booking.ScheduledAt
	}
	if booking.CancelledAt != nil {
		cancelledAt = *booking.CancelledAt
	}

	calc := refundpolicy.CalculateCancellationRefund(payment.Amount, scheduledAt, cancelledAt)
	if !calc.FinalRefund.IsPositive() {
		log.Info("no refund applicable based on cancellation policy",
			slog.Float64("hours_until_service", calc.HoursUntilService))
		return &AutomatedRefundResult{Message: MsgNoRefund, RefundCalculation: &calc}, nil
	}

	reason := fmt.Sprintf("Cancelled %sh before service (%d%% refund)",
		strconv.FormatFloat(calc.HoursUntilService, 'f', -1, 64), calc.RefundPercentage)

	result, err := s.ProcessRefundToWallet(ctx, models.WalletRefund{
		UserID:      booking.UserID,
		BookingID:   uuid.NullUUID{UUID: booking.ID, Valid: true},
		PaymentID:   payment.ID,
		Amount:      calc.FinalRefund,
		Reason:      reason,
		ProcessedBy: cancelledBy,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AutomatedRefundResult{
		Message:            MsgRefundProcessed,
		WalletRefundResult: result,
		RefundCalculation:  &calc,
	}, nil
}

// HandleBookingCancelled обрабатывает событие booking.cancelled из очереди.
// Отказы по бизнес-правилам подтверждаются, сбои инфраструктуры возвращаются для повторной доставки.
func (s *RefundService) HandleBookingCancelled(ctx context.Context, body []byte) error {
	const op = "refund.HandleBookingCancelled"
	log := s.log.With(sl.Op(op))

	var event models.BookingCancelledEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to decode booking cancelled event, dropping", sl.Err(err))
		return nil
	}
	if event.BookingID == uuid.Nil {
		log.Error("booking cancelled event without booking id, dropping")
		return nil
	}

	result, err := s.ProcessAutomatedRefund(ctx, event.BookingID, event.CancelledBy)
	if err != nil {
		if IsRejection(err) {
			log.Warn("automated refund rejected",
				slog.String("booking_id", event.BookingID.String()), sl.Err(err))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking cancellation handled",
		slog.String("booking_id", event.BookingID.String()),
		slog.String("result", result.Message))
	return nil
}
