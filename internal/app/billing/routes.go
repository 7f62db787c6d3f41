// Package billing собирает HTTP API биллинга: аналитику выручки, возвраты и вход.
package billing

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/roadside-billing/internal/http/handlers/analytics/revenue"
	"github.com/magabrotheeeer/roadside-billing/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/roadside-billing/internal/http/handlers/health"
	"github.com/magabrotheeeer/roadside-billing/internal/http/handlers/refunds"
	"github.com/magabrotheeeer/roadside-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	analyticsservice "github.com/magabrotheeeer/roadside-billing/internal/services/analytics"
	auditservice "github.com/magabrotheeeer/roadside-billing/internal/services/audit"
	authservice "github.com/magabrotheeeer/roadside-billing/internal/services/auth"
	refundservice "github.com/magabrotheeeer/roadside-billing/internal/services/refund"
)

// RouteDeps зависимости обработчиков API.
type RouteDeps struct {
	Analytics *analyticsservice.AnalyticsService
	Refunds   *refundservice.RefundService
	Auth      *authservice.AuthService
	Audit     *auditservice.AuditLogger
	Tokens    middlewarectx.TokenParser
	TokenTTL  time.Duration
	Bookings  refunds.BookingReader
	Health    health.Checker
	Limiter   *middlewarectx.IPRateLimiter
	Metrics   http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d RouteDeps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", health.New(logger, d.Health).ServeHTTP)
	r.Handle("/metrics", d.Metrics)
	r.Get("/docs/*", httpSwagger.WrapHandler)

	authenticate := middlewarectx.JWTMiddleware(d.Tokens, logger)
	adminOnly := middlewarectx.RequireRole(logger, models.RoleAdmin)

	rateLimit := middlewarectx.RateLimitMiddleware(d.Limiter, logger)

	// Лимит на GET стоит до проверки токена: запросы без токена тоже считаются.
	revenueRoutes := func(r chi.Router) {
		r.With(rateLimit, authenticate, adminOnly).
			Get("/", revenue.NewGetHandler(logger, d.Analytics).ServeHTTP)
		r.With(authenticate, adminOnly).
			Post("/", revenue.NewComputeHandler(logger, d.Analytics, d.Audit).ServeHTTP)
	}
	r.Route("/api/analytics/revenue", revenueRoutes)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, d.Auth, d.TokenTTL).ServeHTTP)

		r.Route("/analytics/revenue", revenueRoutes)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/refunds/quote", refunds.NewQuoteHandler(logger, d.Refunds).ServeHTTP)
			r.Post("/bookings/{id}/refund", refunds.NewBookingHandler(logger, d.Refunds, d.Bookings).ServeHTTP)

			r.With(adminOnly).Post("/admin/refunds", refunds.NewAdminHandler(logger, d.Refunds).ServeHTTP)
		})
	})
}
