// Package login реализует HTTP-обработчик входа пользователя по email и паролю.
//
// При успешной аутентификации JWT возвращается в теле ответа и выставляется
// HttpOnly cookie "token", которую читает JWTMiddleware.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/roadside-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/roadside-billing/internal/http/response"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/sl"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	authservice "github.com/magabrotheeeer/roadside-billing/internal/services/auth"
)

// Request структура входных данных для авторизации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user garage mechanic admin"`
}

// Response ответ при успешном входе.
type Response struct {
	response.Response
	Token string       `json:"token"`
	Role  string       `json:"role"`
	User  *models.User `json:"user"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password, role string) (*authservice.LoginResult, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log       *slog.Logger
	auth      Service
	validate  *validator.Validate
	cookieTTL time.Duration
}

// New создает новый экземпляр Handler. cookieTTL задаёт время жизни cookie с токеном.
func New(log *slog.Logger, auth Service, cookieTTL time.Duration) *Handler {
	return &Handler{
		log:       log,
		auth:      auth,
		validate:  validator.New(),
		cookieTTL: cookieTTL,
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю, возвращает JWT и выставляет cookie token.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 403 {object} response.ErrorResponse "Учетная запись отключена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/v1/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	res, err := h.auth.Login(r.Context(), req.Email, req.Password, req.Role)
	switch {
	case errors.Is(err, authservice.ErrInvalidCredentials):
		log.Info("invalid credentials", slog.String("email", req.Email))
		response.WriteError(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	case errors.Is(err, authservice.ErrRoleMismatch):
		response.WriteError(w, r, http.StatusUnauthorized, "This account is not registered as a "+req.Role)
		return
	case errors.Is(err, authservice.ErrAccountDeactivated):
		response.WriteError(w, r, http.StatusForbidden, "Your account has been deactivated")
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.TokenCookie,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("login success", slog.String("user_id", res.User.ID.String()))
	render.JSON(w, r, Response{
		Response: response.OKWithMessage("Login successful"),
		Token:    res.Token,
		Role:     res.User.Role,
		User:     res.User,
	})
}
