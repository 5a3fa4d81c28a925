// Package coupon проверяет промокоды и управляет их доступностью.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/storage"
)

var (
	// ErrNotFound купон не найден.
	ErrNotFound = errors.New("coupon not found")
	// ErrDuplicateCode купон с таким кодом уже есть.
	ErrDuplicateCode = errors.New("coupon code already exists")
)

// Repository операции хранилища над купонами.
type Repository interface {
	CreateCoupon(ctx context.Context, c models.Coupon) (string, error)
	GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error)
	ListCoupons(ctx context.Context, onlyAvailable bool) ([]*models.Coupon, error)
	SetCouponAvailability(ctx context.Context, id string, isAvailable bool) (*models.Coupon, error)
}

// Service бизнес-логика купонов.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Validate проверяет промокод. Отсутствующий или выключенный купон даёт
// Valid == false без ошибки.
func (s *Service) Validate(ctx context.Context, code string) (models.CouponValidation, error) {
	const op = "coupon.Validate"

	code = strings.TrimSpace(code)
	if code == "" {
		return models.CouponValidation{Valid: false}, nil
	}

	c, err := s.repo.GetCouponByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return models.CouponValidation{Valid: false}, nil
	}
	if err != nil {
		return models.CouponValidation{}, fmt.Errorf("%s: %w", op, err)
	}
	if !c.IsAvailable {
		return models.CouponValidation{Valid: false}, nil
	}
	return models.CouponValidation{Valid: true, Code: c.Code, Discount: c.Discount}, nil
}

// Create добавляет купон. По умолчанию купон доступен.
func (s *Service) Create(ctx context.Context, req models.CreateCoupon) (string, error) {
	const op = "coupon.Create"

	code := strings.TrimSpace(req.Code)
	_, err := s.repo.GetCouponByCode(ctx, code)
	switch {
	case err == nil:
		return "", fmt.Errorf("%s: %w", op, ErrDuplicateCode)
	case !errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("%s: %w", op, err)
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	id, err := s.repo.CreateCoupon(ctx, models.Coupon{
		Code:        code,
		Discount:    req.Discount,
		Description: req.Description,
		IsAvailable: isAvailable,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", fmt.Errorf("%s: %w", op, ErrDuplicateCode)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("coupon created", slog.String("op", op), slog.String("id", id), slog.String("code", code))
	return id, nil
}

// SetAvailability включает или выключает купон.
func (s *Service) SetAvailability(ctx context.Context, id string, isAvailable bool) (*models.Coupon, error) {
	const op = "coupon.SetAvailability"

	c, err := s.repo.SetCouponAvailability(ctx, id, isAvailable)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListAvailable возвращает доступные купоны.
func (s *Service) ListAvailable(ctx context.Context) ([]*models.Coupon, error) {
	const op = "coupon.ListAvailable"
	list, err := s.repo.ListCoupons(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListAll возвращает все купоны.
func (s *Service) ListAll(ctx context.Context) ([]*models.Coupon, error) {
	const op = "coupon.ListAll"
	list, err := s.repo.ListCoupons(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
