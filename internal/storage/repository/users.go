package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/storage"
)

const userColumns = `id, email, name, photo_url, role, rented_apartment_id, agreement_id, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var rentedApartmentID, agreementID sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role,
		&rentedApartmentID, &agreementID, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.RentedApartmentID = nullString(rentedApartmentID)
	u.AgreementID = nullString(agreementID)
	return &u, nil
}

// CreateUserIfAbsent сохраняет пользователя с ролью user, если email ещё не занят.
// Для уже зарегистрированного email возвращает created == false и не меняет запись.
func (s *Storage) CreateUserIfAbsent(ctx context.Context, user models.RegisterUser) (string, bool, error) {
	const op = "storage.CreateUserIfAbsent"
	select {
	case <-ctx.Done():
		return "", false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, email, name, photo_url, role)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (email) DO NOTHING
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		uuid.NewString(), user.Email, user.Name, user.PhotoURL, models.RoleUser).Scan(&newID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return newID, true, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// ListUsersByRole возвращает пользователей с указанной ролью, старые первыми.
func (s *Storage) ListUsersByRole(ctx context.Context, role string) ([]*models.User, error) {
	const op = "storage.ListUsersByRole"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// PromoteToAdmin выдаёт пользователю роль admin. Используется только из bmsctl:
// через HTTP администратора назначить нельзя.
func (s *Storage) PromoteToAdmin(ctx context.Context, email string) error {
	const op = "storage.PromoteToAdmin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE email = $2`
	result, err := s.DB.ExecContext(ctx, query, models.RoleAdmin, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
