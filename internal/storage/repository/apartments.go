package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/bms-server/internal/models"
)

const apartmentColumns = `id, image_url, floor_no, block_name, apartment_no, rent, is_rented, created_at`

func scanApartment(row rowScanner) (*models.Apartment, error) {
	var a models.Apartment
	if err := row.Scan(&a.ID, &a.ImageURL, &a.FloorNo, &a.BlockName, &a.ApartmentNo,
		&a.Rent, &a.IsRented, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// rentClause строит условие по диапазону аренды. Нумерация аргументов начинается с 1.
func rentClause(filter *models.RentFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}
	return ` WHERE rent >= $1 AND rent <= $2`, []any{filter.Min, filter.Max}
}

// ListApartments возвращает страницу квартир с необязательным фильтром по аренде.
func (s *Storage) ListApartments(ctx context.Context, page models.ApartmentPage) ([]*models.Apartment, error) {
	const op = "storage.ListApartments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := rentClause(page.Filter)
	query := fmt.Sprintf(`SELECT %s FROM apartments%s ORDER BY block_name, apartment_no LIMIT $%d OFFSET $%d`,
		apartmentColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Apartment, 0, page.Size)
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountApartments возвращает число квартир, подходящих под фильтр.
func (s *Storage) CountApartments(ctx context.Context, filter *models.RentFilter) (int, error) {
	const op = "storage.CountApartments"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := rentClause(filter)
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM apartments`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// GetApartment возвращает квартиру по идентификатору.
func (s *Storage) GetApartment(ctx context.Context, id string) (*models.Apartment, error) {
	const op = "storage.GetApartment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + apartmentColumns + ` FROM apartments WHERE id = $1`
	a, err := scanApartment(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return a, nil
}

// OccupancyCounts возвращает счётчики для панели администратора одним запросом.
// Проценты считает сервис.
func (s *Storage) OccupancyCounts(ctx context.Context) (models.AdminStats, error) {
	const op = "storage.OccupancyCounts"
	select {
	case <-ctx.Done():
		return models.AdminStats{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM apartments),
			      (SELECT COUNT(*) FROM apartments WHERE is_rented),
			      (SELECT COUNT(*) FROM users WHERE role = 'user'),
			      (SELECT COUNT(*) FROM users WHERE role = 'member')`
	var stats models.AdminStats
	if err := s.DB.QueryRowContext(ctx, query).Scan(
		&stats.TotalApartments, &stats.RentedApartments, &stats.Users, &stats.Members,
	); err != nil {
		return models.AdminStats{}, fmt.Errorf("%s: %w", op, err)
	}
	stats.AvailableApartments = stats.TotalApartments - stats.RentedApartments
	return stats, nil
}
