package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bms-server/internal/models"
)

const couponColumns = `id, code, discount, description, is_available, created_at`

func scanCoupon(row rowScanner) (*models.Coupon, error) {
	var c models.Coupon
	if err := row.Scan(&c.ID, &c.Code, &c.Discount, &c.Description, &c.IsAvailable, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCoupon сохраняет купон. Повторный код возвращает storage.ErrAlreadyExists.
func (s *Storage) CreateCoupon(ctx context.Context, c models.Coupon) (string, error) {
	const op = "storage.CreateCoupon"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO coupons (id, code, discount, description, is_available)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		uuid.NewString(), c.Code, c.Discount, c.Description, c.IsAvailable).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetCouponByCode возвращает купон по коду независимо от доступности.
func (s *Storage) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	const op = "storage.GetCouponByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	c, err := scanCoupon(s.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return c, nil
}

// ListCoupons возвращает купоны, при onlyAvailable только доступные.
func (s *Storage) ListCoupons(ctx context.Context, onlyAvailable bool) ([]*models.Coupon, error) {
	const op = "storage.ListCoupons"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + couponColumns + ` FROM coupons`
	if onlyAvailable {
		query += ` WHERE is_available`
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SetCouponAvailability включает или выключает купон.
func (s *Storage) SetCouponAvailability(ctx context.Context, id string, isAvailable bool) (*models.Coupon, error) {
	const op = "storage.SetCouponAvailability"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE coupons SET is_available = $2 WHERE id = $1 RETURNING ` + couponColumns
	c, err := scanCoupon(s.DB.QueryRowContext(ctx, query, id, isAvailable))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return c, nil
}
