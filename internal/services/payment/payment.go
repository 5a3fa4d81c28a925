// Package payment журналирует оплаты аренды. Сами расчёты выполняет внешний
// платёжный провайдер, сервис только сохраняет подтверждённые транзакции.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/storage"
)

// ErrDuplicateTransaction транзакция уже записана.
var ErrDuplicateTransaction = errors.New("payment transaction already recorded")

// Repository операции хранилища над платежами.
type Repository interface {
	CreatePayment(ctx context.Context, p models.Payment) (string, error)
	ListPaymentsByEmail(ctx context.Context, email string) ([]*models.Payment, error)
}

// Service бизнес-логика платежей.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create записывает платёж от имени владельца токена.
func (s *Service) Create(ctx context.Context, email string, req models.CreatePayment) (string, error) {
	const op = "payment.Create"

	id, err := s.repo.CreatePayment(ctx, models.Payment{
		Email:         email,
		ApartmentID:   req.ApartmentID,
		Month:         strings.TrimSpace(req.Month),
		Rent:          req.Rent,
		Discount:      req.Discount,
		Amount:        req.Amount,
		CouponCode:    strings.TrimSpace(req.CouponCode),
		TransactionID: strings.TrimSpace(req.TransactionID),
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return "", fmt.Errorf("%s: %w", op, ErrDuplicateTransaction)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("payment recorded",
		slog.String("op", op),
		slog.String("id", id),
		slog.String("month", req.Month),
		slog.Int("amount", req.Amount),
	)
	return id, nil
}

// ListByEmail возвращает платежи пользователя.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*models.Payment, error) {
	const op = "payment.ListByEmail"
	list, err := s.repo.ListPaymentsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
