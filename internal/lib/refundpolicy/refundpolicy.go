// Package refundpolicy реализует политику возвратов при отмене бронирования
// и при разрешении споров. Функции пакета чистые: результат зависит только от аргументов.
package refundpolicy

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Процент возврата в зависимости от того, за сколько часов до начала обслуживания
// отменено бронирование.
const (
	Hours24Plus   = 100
	Hours12To24   = 75
	Hours6To12    = 50
	Hours0To6     = 25
	AfterStart    = 0
	ProcessingFee = 2 // Невозвратная комиссия, % от оплаченной суммы
)

// Варианты разрешения спора.
const (
	DisputeFull    = "full"
	DisputePartial = "partial"
	DisputeNone    = "none"
)

// ErrUnknownResolution возвращается для неизвестного варианта разрешения спора.
var ErrUnknownResolution = errors.New("unknown dispute resolution")

var hundred = decimal.NewFromInt(100)

// Calculation результат расчёта возврата при отмене.
type Calculation struct {
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	RefundPercentage  int             `json:"refundPercentage"`
	RefundAmount      decimal.Decimal `json:"refundAmount"`
	ProcessingFee     decimal.Decimal `json:"processingFee"`
	FinalRefund       decimal.Decimal `json:"finalRefund"`
	HoursUntilService float64         `json:"hoursUntilService"`
}

// Percentage возвращает процент возврата для заданного числа часов до начала обслуживания.
func Percentage(hoursUntilService float64) int {
	switch {
	case hoursUntilService >= 24:
		return Hours24Plus
	case hoursUntilService >= 12:
		return Hours12To24
	case hoursUntilService >= 6:
		return Hours6To12
	case hoursUntilService > 0:
		return Hours0To6
	default:
		return AfterStart
	}
}

// CalculateCancellationRefund считает возврат по оплаченной сумме и времени отмены
// относительно запланированного начала обслуживания.
//
// Из суммы по тарифной сетке вычитается комиссия ProcessingFee; итог не бывает отрицательным
// и округляется до копеек.
func CalculateCancellationRefund(paidAmount decimal.Decimal, scheduledAt, cancelledAt time.Time) Calculation {
	hours := scheduledAt.Sub(cancelledAt).Hours()
	pct := Percentage(hours)

	refundAmount := paidAmount.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)
	fee := paidAmount.Mul(decimal.NewFromInt(ProcessingFee)).Div(hundred)

	final := refundAmount.Sub(fee)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Calculation{
		PaidAmount:        paidAmount,
		RefundPercentage:  pct,
		RefundAmount:      refundAmount,
		ProcessingFee:     fee,
		FinalRefund:       final.Round(2),
		HoursUntilService: math.Floor(hours*10+0.5) / 10,
	}
}

// DisputeRefund возвращает сумму возврата по итогам спора. Комиссия при спорах не удерживается.
func DisputeRefund(paidAmount decimal.Decimal, resolution string) (decimal.Decimal, error) {
	var pct int64
	switch resolution {
	case DisputeFull:
		pct = 100
	case DisputePartial:
		pct = 50
	case DisputeNone:
		pct = 0
	default:
		return decimal.Zero, ErrUnknownResolution
	}
	return paidAmount.Mul(decimal.NewFromInt(pct)).Div(hundred).Round(2), nil
}
