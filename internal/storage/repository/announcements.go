package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bms-server/internal/models"
)

// CreateAnnouncement публикует объявление.
func (s *Storage) CreateAnnouncement(ctx context.Context, a models.Announcement) (string, error) {
	const op = "storage.CreateAnnouncement"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO announcements (id, title, description)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID string
	if err := s.DB.QueryRowContext(ctx, query, uuid.NewString(), a.Title, a.Description).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListAnnouncements возвращает объявления, новые первыми.
func (s *Storage) ListAnnouncements(ctx context.Context) ([]*models.Announcement, error) {
	const op = "storage.ListAnnouncements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, created_at FROM announcements ORDER BY created_at DESC, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Announcement, 0)
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
