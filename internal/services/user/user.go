// Package user регистрирует пользователей и отдаёт их роли.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/storage"
)

// ErrNotFound пользователь не найден.
var ErrNotFound = errors.New("user not found")

// Repository операции хранилища над пользователями.
type Repository interface {
	CreateUserIfAbsent(ctx context.Context, user models.RegisterUser) (string, bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]*models.User, error)
	PromoteToAdmin(ctx context.Context, email string) error
}

// Service бизнес-логика пользователей.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register сохраняет пользователя с ролью user. Повторная регистрация того же
// email ничего не меняет и возвращает created == false.
func (s *Service) Register(ctx context.Context, req models.RegisterUser) (string, bool, error) {
	const op = "user.Register"

	req.Email = strings.TrimSpace(req.Email)
	id, created, err := s.repo.CreateUserIfAbsent(ctx, req)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if created {
		s.log.Info("user registered", slog.String("op", op), slog.String("id", id))
	}
	return id, created, nil
}

// Role возвращает роль пользователя. Незарегистрированный email получает роль user.
func (s *Service) Role(ctx context.Context, email string) (string, error) {
	const op = "user.Role"

	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return models.RoleUser, nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return u.Role, nil
}

// Members возвращает пользователей с ролью member.
func (s *Service) Members(ctx context.Context) ([]*models.User, error) {
	const op = "user.Members"
	list, err := s.repo.ListUsersByRole(ctx, models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// PromoteToAdmin назначает администратора. Доступно только из bmsctl.
func (s *Service) PromoteToAdmin(ctx context.Context, email string) error {
	const op = "user.PromoteToAdmin"

	email = strings.TrimSpace(email)
	err := s.repo.PromoteToAdmin(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Warn("user promoted to admin", slog.String("op", op), slog.String("email", email))
	return nil
}
