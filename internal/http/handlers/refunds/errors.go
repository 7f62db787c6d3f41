// Package refunds реализует HTTP-обработчики возвратов: расчёт суммы при отмене,
// ручной возврат администратором и автоматический возврат по отменённому бронированию.
package refunds

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/roadside-billing/internal/lib/refundpolicy"
	"github.com/magabrotheeeer/roadside-billing/internal/storage"
)

var statusByError = []struct {
	err    error
	status int
}{
	{storage.ErrUserNotFound, http.StatusNotFound},
	{storage.ErrPaymentNotFound, http.StatusNotFound},
	{storage.ErrBookingNotFound, http.StatusNotFound},
	{storage.ErrPaymentAlreadyRefunded, http.StatusConflict},
	{storage.ErrRefundExceedsPayment, http.StatusUnprocessableEntity},
	{storage.ErrInvalidRefundAmount, http.StatusUnprocessableEntity},
	{storage.ErrPaymentNotRefundable, http.StatusUnprocessableEntity},
	{storage.ErrPaymentOwnerMismatch, http.StatusUnprocessableEntity},
	{refundpolicy.ErrUnknownResolution, http.StatusUnprocessableEntity},
}

// statusFor сопоставляет ошибку возврата HTTP статусу и тексту ответа.
func statusFor(err error) (int, string) {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}
