package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/storage"
)

const checkedApartmentIndex = "idx_agreements_checked_apartment"

// TransitionAgreement переводит договор из pending в checked или rejected.
//
// Смена статуса и каскад выполняются в одной транзакции. Договор и квартира
// блокируются FOR UPDATE, а само обновление дополнительно защищено условием
// status = 'pending', поэтому из двух гонящихся запросов пройдёт только один.
//
// Для checked пользователь получает роль member и ссылки на квартиру и договор,
// квартира помечается сданной. Отсутствующая строка пользователя или квартиры
// не отменяет смену статуса: шаг каскада помечается как not_found.
func (s *Storage) TransitionAgreement(ctx context.Context, id, status string) (models.TransitionResult, error) {
	const op = "storage.TransitionAgreement"
	select {
	case <-ctx.Done():
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, err := scanAgreement(tx.QueryRowContext(ctx,
		`SELECT `+agreementColumns+` FROM agreements WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, mapError(err))
	}
	if current.Status != models.AgreementPending {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, storage.ErrNotPending)
	}

	result := models.TransitionResult{
		User:      models.CascadeSkipped,
		Apartment: models.CascadeSkipped,
	}

	if status == models.AgreementChecked {
		var held bool
		err = tx.QueryRowContext(ctx, `SELECT EXISTS (
			SELECT 1 FROM agreements WHERE user_email = $1 AND status = 'checked'
		)`, current.UserEmail).Scan(&held)
		if err != nil {
			return models.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
		}
		if held {
			return models.TransitionResult{}, fmt.Errorf("%s: %w", op, storage.ErrAlreadyMember)
		}

		var isRented bool
		err = tx.QueryRowContext(ctx,
			`SELECT is_rented FROM apartments WHERE id = $1 FOR UPDATE`, current.ApartmentID).Scan(&isRented)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			result.Apartment = models.CascadeNotFound
		case err != nil:
			return models.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
		case isRented:
			return models.TransitionResult{}, fmt.Errorf("%s: %w", op, storage.ErrApartmentRented)
		}
	}

	updated, err := scanAgreement(tx.QueryRowContext(ctx, `UPDATE agreements
		SET status = $2::text,
		    checked_date = CASE WHEN $2::text = 'checked' THEN NOW() ELSE checked_date END
		WHERE id = $1 AND status = 'pending'
		RETURNING `+agreementColumns, id, status))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, storage.ErrNotPending)
	}
	if err != nil {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, checkedConflict(err))
	}
	result.Agreement = *updated

	if status == models.AgreementChecked {
		if result.Apartment != models.CascadeNotFound {
			if _, err = tx.ExecContext(ctx,
				`UPDATE apartments SET is_rented = TRUE WHERE id = $1`, updated.ApartmentID); err != nil {
				return models.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
			}
			result.Apartment = models.CascadeApplied
		}

		res, err := tx.ExecContext(ctx, `UPDATE users
			SET role = CASE WHEN role = 'admin' THEN role ELSE 'member' END,
			    rented_apartment_id = $2,
			    agreement_id = $3
			WHERE email = $1`, updated.UserEmail, updated.ApartmentID, updated.ID)
		if err != nil {
			return models.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return models.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
		}
		result.User = models.CascadeApplied
		if rowsAffected == 0 {
			result.User = models.CascadeNotFound
		}
	}

	if err = tx.Commit(); err != nil {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ResetTenant возвращает участника к роли user: одобренный договор переходит
// в terminated, квартира освобождается, ссылки пользователя очищаются.
// Для роли user ничего не меняет и возвращает Modified == false.
func (s *Storage) ResetTenant(ctx context.Context, userID string) (models.ResetResult, error) {
	const op = "storage.ResetTenant"
	select {
	case <-ctx.Done():
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var email, role string
	var rentedApartmentID sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT email, role, rented_apartment_id FROM users WHERE id = $1 FOR UPDATE`, userID).
		Scan(&email, &role, &rentedApartmentID)
	if err != nil {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, mapError(err))
	}

	switch role {
	case models.RoleAdmin:
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, storage.ErrAdminTarget)
	case models.RoleUser:
		return models.ResetResult{Modified: false}, nil
	}

	result := models.ResetResult{Modified: true}

	var agreementApartmentID string
	err = tx.QueryRowContext(ctx, `UPDATE agreements
		SET status = 'terminated', terminated_date = NOW()
		WHERE user_email = $1 AND status = 'checked'
		RETURNING id, apartment_id`, email).Scan(&result.TerminatedAgreementID, &agreementApartmentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, err)
	}

	release := agreementApartmentID
	if release == "" && rentedApartmentID.Valid {
		release = rentedApartmentID.String
	}
	if release != "" {
		if _, err = tx.ExecContext(ctx,
			`UPDATE apartments SET is_rented = FALSE WHERE id = $1`, release); err != nil {
			return models.ResetResult{}, fmt.Errorf("%s: %w", op, err)
		}
		result.ReleasedApartmentID = release
	}

	if _, err = tx.ExecContext(ctx, `UPDATE users
		SET role = 'user', rented_apartment_id = NULL, agreement_id = NULL
		WHERE id = $1`, userID); err != nil {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Reconcile заново выводит is_rented квартир и роль member пользователей
// из одобренных договоров. Администраторы не затрагиваются.
func (s *Storage) Reconcile(ctx context.Context) (models.ReconcileResult, error) {
	const op = "storage.Reconcile"
	select {
	case <-ctx.Done():
		return models.ReconcileResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.ReconcileResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var result models.ReconcileResult
	steps := []struct {
		query string
		dest  *int
	}{
		{
			query: `UPDATE apartments a SET is_rented = TRUE
				WHERE NOT a.is_rented AND EXISTS (
					SELECT 1 FROM agreements g WHERE g.apartment_id = a.id AND g.status = 'checked')`,
			dest: &result.ApartmentsRented,
		},
		{
			query: `UPDATE apartments a SET is_rented = FALSE
				WHERE a.is_rented AND NOT EXISTS (
					SELECT 1 FROM agreements g WHERE g.apartment_id = a.id AND g.status = 'checked')`,
			dest: &result.ApartmentsReleased,
		},
		{
			query: `UPDATE users u SET role = 'member', rented_apartment_id = g.apartment_id, agreement_id = g.id
				FROM agreements g
				WHERE g.user_email = u.email AND g.status = 'checked' AND u.role <> 'admin'
				  AND (u.role <> 'member'
				       OR u.agreement_id IS DISTINCT FROM g.id
				       OR u.rented_apartment_id IS DISTINCT FROM g.apartment_id)`,
			dest: &result.UsersPromoted,
		},
		{
			query: `UPDATE users u SET role = 'user', rented_apartment_id = NULL, agreement_id = NULL
				WHERE u.role = 'member' AND NOT EXISTS (
					SELECT 1 FROM agreements g WHERE g.user_email = u.email AND g.status = 'checked')`,
			dest: &result.UsersDemoted,
		},
	}

	for _, step := range steps {
		res, err := tx.ExecContext(ctx, step.query)
		if err != nil {
			return models.ReconcileResult{}, fmt.Errorf("%s: %w", op, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return models.ReconcileResult{}, fmt.Errorf("%s: %w", op, err)
		}
		*step.dest = int(n)
	}

	if err = tx.Commit(); err != nil {
		return models.ReconcileResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// checkedConflict различает нарушения частичных уникальных индексов по одобренным договорам.
func checkedConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if pgErr.ConstraintName == checkedApartmentIndex {
			return storage.ErrApartmentRented
		}
		return storage.ErrAlreadyMember
	}
	return mapError(err)
}
