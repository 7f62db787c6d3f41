// Package services содержит логику входа пользователей по email и паролю.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/roadside-billing/internal/lib/jwt"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/password"
	"github.com/magabrotheeeer/roadside-billing/internal/models"
	"github.com/magabrotheeeer/roadside-billing/internal/storage"
)

var (
	// ErrInvalidCredentials неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDeactivated учётная запись отключена.
	ErrAccountDeactivated = errors.New("account has been deactivated")
	// ErrRoleMismatch пользователь входит не под своей ролью.
	ErrRoleMismatch = errors.New("account is not registered with requested role")
)

// UserRepository описывает контракт для чтения пользователей.
type UserRepository interface {
	// GetUserByEmail возвращает пользователя или storage.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// LoginResult выданный токен и данные пользователя.
type LoginResult struct {
	Token string
	User  *models.User
}

// AuthService отвечает за авторизацию и выпуск JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет пароль пользователя и выпускает JWT. Непустой role требует совпадения роли.
func (s *AuthService) Login(ctx context.Context, email, rawPassword, role string) (*LoginResult, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	if err := password.Compare(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if role != "" && user.Role != role {
		return nil, ErrRoleMismatch
	}

	token, err := s.jwtMaker.GenerateToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{Token: token, User: user}, nil
}
