package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bms-server/internal/models"
)

const agreementColumns = `id, user_email, user_name, apartment_id, floor_no, block_name, apartment_no,
	rent, status, created_at, checked_date, terminated_date`

func scanAgreement(row rowScanner) (*models.Agreement, error) {
	var a models.Agreement
	var checkedDate, terminatedDate sql.NullTime
	if err := row.Scan(&a.ID, &a.UserEmail, &a.UserName, &a.ApartmentID, &a.FloorNo,
		&a.BlockName, &a.ApartmentNo, &a.Rent, &a.Status, &a.CreatedAt,
		&checkedDate, &terminatedDate); err != nil {
		return nil, err
	}
	if checkedDate.Valid {
		a.CheckedDate = &checkedDate.Time
	}
	if terminatedDate.Valid {
		a.TerminatedDate = &terminatedDate.Time
	}
	return &a, nil
}

// CreateAgreement сохраняет заявку в статусе pending и возвращает её идентификатор.
func (s *Storage) CreateAgreement(ctx context.Context, a models.Agreement) (string, error) {
	const op = "storage.CreateAgreement"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO agreements (id, user_email, user_name, apartment_id, floor_no,
			      block_name, apartment_no, rent, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		uuid.NewString(), a.UserEmail, a.UserName, a.ApartmentID, a.FloorNo,
		a.BlockName, a.ApartmentNo, a.Rent, models.AgreementPending).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, mapError(err))
	}
	return newID, nil
}

// GetAgreement возвращает договор по идентификатору.
func (s *Storage) GetAgreement(ctx context.Context, id string) (*models.Agreement, error) {
	const op = "storage.GetAgreement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + agreementColumns + ` FROM agreements WHERE id = $1`
	a, err := scanAgreement(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return a, nil
}

// ListAgreements возвращает все договоры, новые первыми.
func (s *Storage) ListAgreements(ctx context.Context) ([]*models.Agreement, error) {
	const op = "storage.ListAgreements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.queryAgreements(ctx, op,
		`SELECT `+agreementColumns+` FROM agreements ORDER BY created_at DESC, id`)
}

// ListAgreementsByEmail возвращает договоры пользователя, новые первыми.
func (s *Storage) ListAgreementsByEmail(ctx context.Context, email string) ([]*models.Agreement, error) {
	const op = "storage.ListAgreementsByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.queryAgreements(ctx, op,
		`SELECT `+agreementColumns+` FROM agreements WHERE user_email = $1 ORDER BY created_at DESC, id`, email)
}

func (s *Storage) queryAgreements(ctx context.Context, op, query string, args ...any) ([]*models.Agreement, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Agreement, 0)
	for rows.Next() {
		a, err := scanAgreement(rows)
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
