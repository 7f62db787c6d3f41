package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "middle of month",
			in:   time.Date(2026, 10, 17, 15, 4, 5, 0, time.UTC),
			want: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "first instant",
			in:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "non utc input",
			in:   time.Date(2026, 3, 1, 2, 0, 0, 0, time.FixedZone("UTC+6", 6*3600)),
			want: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartOfMonth(tt.in))
		})
	}
}

func TestStartOfPrevMonth(t *testing.T) {
	assert.Equal(t,
		time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		StartOfPrevMonth(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t,
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		StartOfPrevMonth(time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)))
}

func TestStartOfDay(t *testing.T) {
	assert.Equal(t,
		time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		StartOfDay(time.Date(2026, 10, 17, 23, 59, 59, 0, time.UTC)))
}

func TestMonthsAgo(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{
			name: "six months",
			in:   time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
			n:    6,
			want: time.Date(2026, 4, 17, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "clamps to end of shorter month",
			in:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			n:    1,
			want: time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "crosses year",
			in:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			n:    3,
			want: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "zero",
			in:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			n:    0,
			want: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsAgo(tt.in, tt.n))
		})
	}
}

func TestWithin(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	assert.True(t, Within(from, from, to))
	assert.True(t, Within(to, from, to))
	assert.True(t, Within(from.Add(time.Hour), from, to))
	assert.False(t, Within(from.Add(-time.Nanosecond), from, to))
	assert.False(t, Within(to.Add(time.Nanosecond), from, to))
}
