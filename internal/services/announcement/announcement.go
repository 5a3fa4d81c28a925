// Package announcement публикует и отдаёт объявления администрации.
package announcement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bms-server/internal/models"
)

// Repository операции хранилища над объявлениями.
type Repository interface {
	CreateAnnouncement(ctx context.Context, a models.Announcement) (string, error)
	ListAnnouncements(ctx context.Context) ([]*models.Announcement, error)
}

// Service бизнес-логика объявлений.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create публикует объявление.
func (s *Service) Create(ctx context.Context, req models.CreateAnnouncement) (string, error) {
	const op = "announcement.Create"

	id, err := s.repo.CreateAnnouncement(ctx, models.Announcement{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("announcement published", slog.String("op", op), slog.String("id", id))
	return id, nil
}

// List возвращает объявления, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.Announcement, error) {
	const op = "announcement.List"
	list, err := s.repo.ListAnnouncements(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
