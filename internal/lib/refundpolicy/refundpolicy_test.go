package refundpolicy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCancellationRefund_Tiers(t *testing.T) {
	scheduled := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	paid := decimal.NewFromInt(1000)

	tests := []struct {
		name      string
		before    time.Duration
		wantPct   int
		wantFinal string
	}{
		{name: "exactly 24h before", before: 24 * time.Hour, wantPct: 100, wantFinal: "980"},
		{name: "two days before", before: 48 * time.Hour, wantPct: 100, wantFinal: "980"},
		{name: "23h59m before", before: 23*time.Hour + 59*time.Minute, wantPct: 75, wantFinal: "730"},
		{name: "exactly 12h before", before: 12 * time.Hour, wantPct: 75, wantFinal: "730"},
		{name: "11h59m before", before: 11*time.Hour + 59*time.Minute, wantPct: 50, wantFinal: "480"},
		{name: "exactly 6h before", before: 6 * time.Hour, wantPct: 50, wantFinal: "480"},
		{name: "5h59m before", before: 5*time.Hour + 59*time.Minute, wantPct: 25, wantFinal: "230"},
		{name: "one minute before", before: time.Minute, wantPct: 25, wantFinal: "230"},
		{name: "at start", before: 0, wantPct: 0, wantFinal: "0"},
		{name: "after start", before: -3 * time.Hour, wantPct: 0, wantFinal: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCancellationRefund(paid, scheduled, scheduled.Add(-tt.before))

			assert.Equal(t, tt.wantPct, got.RefundPercentage)
			assert.True(t, decimal.RequireFromString(tt.wantFinal).Equal(got.FinalRefund),
				"final refund = %s, want %s", got.FinalRefund, tt.wantFinal)
			assert.True(t, decimal.NewFromInt(20).Equal(got.ProcessingFee))
			assert.True(t, paid.Equal(got.PaidAmount))
		})
	}
}

func TestCalculateCancellationRefund_NeverNegative(t *testing.T) {
	scheduled := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)

	amounts := []string{"0", "0.01", "1", "49.99", "1000", "123456.78"}
	offsets := []time.Duration{-72 * time.Hour, -time.Second, 0, time.Second, 7 * time.Hour, 30 * time.Hour}

	for _, a := range amounts {
		for _, off := range offsets {
			got := CalculateCancellationRefund(decimal.RequireFromString(a), scheduled, scheduled.Add(-off))
			assert.False(t, got.FinalRefund.IsNegative(), "amount %s offset %s", a, off)
		}
	}
}

func TestCalculateCancellationRefund_HoursRounded(t *testing.T) {
	scheduled := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	got := CalculateCancellationRefund(decimal.NewFromInt(100), scheduled, scheduled.Add(-(23*time.Hour + 59*time.Minute)))
	assert.Equal(t, 24.0, got.HoursUntilService)

	got = CalculateCancellationRefund(decimal.NewFromInt(100), scheduled, scheduled.Add(-(7*time.Hour + 20*time.Minute)))
	assert.Equal(t, 7.3, got.HoursUntilService)
}

func TestCalculateCancellationRefund_HalfHoursRoundUp(t *testing.T) {
	scheduled := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	paid := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		cancelledAt time.Time
		want        float64
	}{
		{name: "15m before", cancelledAt: scheduled.Add(-15 * time.Minute), want: 0.3},
		{name: "15m after", cancelledAt: scheduled.Add(15 * time.Minute), want: -0.2},
		{name: "45m after", cancelledAt: scheduled.Add(45 * time.Minute), want: -0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateCancellationRefund(paid, scheduled, tt.cancelledAt).HoursUntilService)
		})
	}
}

func TestCalculateCancellationRefund_Deterministic(t *testing.T) {
	scheduled := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)
	cancelled := scheduled.Add(-13 * time.Hour)

	first := CalculateCancellationRefund(decimal.RequireFromString("333.33"), scheduled, cancelled)
	second := CalculateCancellationRefund(decimal.RequireFromString("333.33"), scheduled, cancelled)
	assert.Equal(t, first, second)
	assert.Equal(t, "243.33", first.FinalRefund.String())
}

func TestDisputeRefund(t *testing.T) {
	paid := decimal.RequireFromString("999.99")

	full, err := DisputeRefund(paid, DisputeFull)
	require.NoError(t, err)
	assert.Equal(t, "999.99", full.String())

	partial, err := DisputeRefund(paid, DisputePartial)
	require.NoError(t, err)
	assert.Equal(t, "500", partial.String())

	none, err := DisputeRefund(paid, DisputeNone)
	require.NoError(t, err)
	assert.True(t, none.IsZero())

	_, err = DisputeRefund(paid, "half")
	assert.ErrorIs(t, err, ErrUnknownResolution)
}
