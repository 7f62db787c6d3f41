package models

import "time"

// Периоды снимков метрик.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// MRR ежемесячная регулярная выручка и её составляющие.
type MRR struct {
	Total       float64 `json:"total"`
	New         float64 `json:"new"`
	Expansion   float64 `json:"expansion"`
	Contraction float64 `json:"contraction"`
	Churn       float64 `json:"churn"`
	Growth      float64 `json:"growth"` // Рост к прошлому месяцу, %
}

// ARR годовая регулярная выручка.
type ARR struct {
	Total  float64 `json:"total"`
	Growth float64 `json:"growth"`
}

// ARPU средняя выручка на платящего пользователя.
type ARPU struct {
	Overall float64            `json:"overall"`
	ByPlan  map[string]float64 `json:"byPlan"`
}

// LTV оценка пожизненной ценности клиента.
type LTV struct {
	Average float64            `json:"average"`
	ByPlan  map[string]float64 `json:"byPlan"`
}

// Churn отток за текущий месяц.
type Churn struct {
	Rate    float64 `json:"rate"` // %
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Customers счётчики клиентов.
type Customers struct {
	Total   int `json:"total"`
	New     int `json:"new"`
	Active  int `json:"active"`
	Churned int `json:"churned"`
}

// RevenueBySource выручка по источникам.
type RevenueBySource struct {
	Subscriptions float64 `json:"subscriptions"`
	Bookings      float64 `json:"bookings"`
	Other         float64 `json:"other"`
}

// Forecast линейный прогноз на следующий месяц.
type Forecast struct {
	MRR       float64 `json:"mrr"`
	ARR       float64 `json:"arr"`
	Customers int     `json:"customers"`
}

// RevenueMetrics снимок метрик выручки на дату. Пара (Date, Period) уникальна.
type RevenueMetrics struct {
	Date            time.Time          `json:"date"`
	Period          string             `json:"period"`
	MRR             MRR                `json:"mrr"`
	ARR             ARR                `json:"arr"`
	ARPU            ARPU               `json:"arpu"`
	LTV             LTV                `json:"ltv"`
	Churn           Churn              `json:"churn"`
	Customers       Customers          `json:"customers"`
	RevenueBySource RevenueBySource    `json:"revenueBySource"`
	RevenueByPlan   map[string]float64 `json:"revenueByPlan"`
	Forecast        Forecast           `json:"forecast"`
	CalculatedAt    time.Time          `json:"calculatedAt"`
}

// MetricsSummary точка исторического ряда метрик.
type MetricsSummary struct {
	Date      time.Time `json:"date"`
	MRR       float64   `json:"mrr"`
	ARR       float64   `json:"arr"`
	ARPU      float64   `json:"arpu"`
	Churn     float64   `json:"churn"`
	Customers int       `json:"customers"`
}

// Summary сворачивает снимок в точку исторического ряда.
func (m RevenueMetrics) Summary() MetricsSummary {
	return MetricsSummary{
		Date:      m.Date,
		MRR:       m.MRR.Total,
		ARR:       m.ARR.Total,
		ARPU:      m.ARPU.Overall,
		Churn:     m.Churn.Rate,
		Customers: m.Customers.Total,
	}
}
