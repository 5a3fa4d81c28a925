// Package agreement реализует жизненный цикл договоров аренды: подачу заявки,
// одобрение или отклонение администратором с каскадом на пользователя и квартиру,
// сброс участника до обычного пользователя и фоновую сверку арендного состояния.
package agreement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bms-server/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/metrics"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/storage"
)

// Префикс ключей кеша с выборками квартир.
const ApartmentsCachePrefix = "apartments:"

var (
	// ErrAgreementNotFound договор не найден.
	ErrAgreementNotFound = errors.New("agreement not found")
	// ErrInvalidTransition договор уже не в статусе pending или целевой статус недопустим.
	ErrInvalidTransition = errors.New("invalid agreement transition")
	// ErrAlreadyMember у пользователя уже есть одобренный договор.
	ErrAlreadyMember = errors.New("user already holds a checked agreement")
	// ErrApartmentRented квартира уже сдана.
	ErrApartmentRented = errors.New("apartment is already rented")
	// ErrApartmentNotFound квартира из заявки не найдена.
	ErrApartmentNotFound = errors.New("apartment not found")
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrCannotResetAdmin администратора нельзя сбросить до роли user.
	ErrCannotResetAdmin = errors.New("cannot reset admin")
)

// Repository операции хранилища, нужные движку договоров.
type Repository interface {
	GetApartment(ctx context.Context, id string) (*models.Apartment, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateAgreement(ctx context.Context, a models.Agreement) (string, error)
	ListAgreements(ctx context.Context) ([]*models.Agreement, error)
	ListAgreementsByEmail(ctx context.Context, email string) ([]*models.Agreement, error)
	TransitionAgreement(ctx context.Context, id, status string) (models.TransitionResult, error)
	ResetTenant(ctx context.Context, userID string) (models.ResetResult, error)
	Reconcile(ctx context.Context) (models.ReconcileResult, error)
}

// Cache инвалидация выборок квартир после изменения арендного состояния.
type Cache interface {
	InvalidatePrefix(ctx context.Context, prefix string) (int, error)
}

// Publisher отправка событий жизненного цикла договора.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service движок жизненного цикла договоров.
type Service struct {
	repo      Repository
	cache     Cache
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт Service. cache и publisher могут быть nil.
func New(repo Repository, cache Cache, publisher Publisher, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = rabbitmq.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Submit создаёт заявку в статусе pending. Этаж, блок, номер и арендная плата
// копируются из квартиры. Повторные заявки не отсекаются.
func (s *Service) Submit(ctx context.Context, email, name string, req models.SubmitAgreement) (string, error) {
	const op = "agreement.Submit"

	apartment, err := s.repo.GetApartment(ctx, req.ApartmentID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", op, ErrApartmentNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateAgreement(ctx, models.Agreement{
		UserEmail:   email,
		UserName:    name,
		ApartmentID: apartment.ID,
		FloorNo:     apartment.FloorNo,
		BlockName:   apartment.BlockName,
		ApartmentNo: apartment.ApartmentNo,
		Rent:        apartment.Rent,
		Status:      models.AgreementPending,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("agreement submitted",
		slog.String("op", op),
		slog.String("agreement_id", id),
		slog.String("apartment_id", apartment.ID),
	)
	return id, nil
}

// Transition переводит договор из pending в checked или rejected.
// Для checked в той же транзакции пользователь становится member, а квартира сданной.
// Если строка пользователя или квартиры отсутствует, статус всё равно записывается,
// а результат помечается как частичный каскад.
func (s *Service) Transition(ctx context.Context, id, status, actingAdmin string) (models.TransitionResult, error) {
	const op = "agreement.Transition"

	if status != models.AgreementChecked && status != models.AgreementRejected {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	result, err := s.repo.TransitionAgreement(ctx, id, status)
	if err != nil {
		return models.TransitionResult{}, fmt.Errorf("%s: %w", op, mapTransitionError(err))
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("agreement_id", id),
		slog.String("status", status),
		slog.String("acted_by", actingAdmin),
	)

	cascade := "none"
	if status == models.AgreementChecked {
		cascade = "full"
		if result.Partial() {
			cascade = "partial"
			log.Warn("agreement checked with partial cascade",
				slog.String("user_step", result.User),
				slog.String("apartment_step", result.Apartment),
			)
		}
		s.invalidateApartments(ctx, log)
	}
	metrics.RecordAgreementTransition(status, cascade)

	routingKey := rabbitmq.RoutingAgreementRejected
	if status == models.AgreementChecked {
		routingKey = rabbitmq.RoutingAgreementChecked
	}
	s.publish(log, routingKey, rabbitmq.AgreementEvent{
		AgreementID: result.Agreement.ID,
		UserEmail:   result.Agreement.UserEmail,
		ApartmentID: result.Agreement.ApartmentID,
		Status:      status,
		Partial:     result.Partial(),
		ActedBy:     actingAdmin,
		OccurredAt:  s.now().UTC(),
	})

	log.Info("agreement status changed", slog.String("cascade", cascade))
	return result, nil
}

// ResetToTenant возвращает участника к роли user: одобренный договор переходит
// в terminated, квартира освобождается. Для роли user ничего не меняет.
func (s *Service) ResetToTenant(ctx context.Context, userID, actingAdmin string) (models.ResetResult, error) {
	const op = "agreement.ResetToTenant"

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, mapResetError(err))
	}
	if user.Role == models.RoleAdmin {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, ErrCannotResetAdmin)
	}

	result, err := s.repo.ResetTenant(ctx, userID)
	if err != nil {
		return models.ResetResult{}, fmt.Errorf("%s: %w", op, mapResetError(err))
	}
	metrics.RecordTenantReset(result.Modified)

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID),
		slog.String("acted_by", actingAdmin),
	)
	if !result.Modified {
		log.Info("user already has role user, nothing to reset")
		return result, nil
	}

	if result.ReleasedApartmentID != "" {
		s.invalidateApartments(ctx, log)
	}
	if result.TerminatedAgreementID != "" {
		s.publish(log, rabbitmq.RoutingAgreementTerminated, rabbitmq.AgreementEvent{
			AgreementID: result.TerminatedAgreementID,
			UserEmail:   user.Email,
			ApartmentID: result.ReleasedApartmentID,
			Status:      models.AgreementTerminated,
			ActedBy:     actingAdmin,
			OccurredAt:  s.now().UTC(),
		})
	}

	log.Info("tenant reset",
		slog.String("terminated_agreement_id", result.TerminatedAgreementID),
		slog.String("released_apartment_id", result.ReleasedApartmentID),
	)
	return result, nil
}

// Reconcile приводит is_rented квартир и роли пользователей в соответствие
// с одобренными договорами.
func (s *Service) Reconcile(ctx context.Context) (models.ReconcileResult, error) {
	const op = "agreement.Reconcile"

	start := s.now()
	result, err := s.repo.Reconcile(ctx)
	if err != nil {
		return models.ReconcileResult{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.RecordReconcile(result.ApartmentsRented, result.ApartmentsReleased,
		result.UsersPromoted, result.UsersDemoted, s.now().Sub(start))

	log := s.log.With(slog.String("op", op))
	if result.Total() == 0 {
		log.Debug("tenancy state is consistent")
		return result, nil
	}
	if result.ApartmentsRented > 0 || result.ApartmentsReleased > 0 {
		s.invalidateApartments(ctx, log)
	}
	log.Warn("tenancy state repaired",
		slog.Int("apartments_rented", result.ApartmentsRented),
		slog.Int("apartments_released", result.ApartmentsReleased),
		slog.Int("users_promoted", result.UsersPromoted),
		slog.Int("users_demoted", result.UsersDemoted),
	)
	return result, nil
}

// ListAll возвращает все договоры.
func (s *Service) ListAll(ctx context.Context) ([]*models.Agreement, error) {
	const op = "agreement.ListAll"
	list, err := s.repo.ListAgreements(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListByEmail возвращает договоры пользователя.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*models.Agreement, error) {
	const op = "agreement.ListByEmail"
	list, err := s.repo.ListAgreementsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) invalidateApartments(ctx context.Context, log *slog.Logger) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.InvalidatePrefix(ctx, ApartmentsCachePrefix); err != nil {
		log.Warn("failed to invalidate apartments cache", sl.Err(err))
	}
}

func (s *Service) publish(log *slog.Logger, routingKey string, event rabbitmq.AgreementEvent) {
	if err := s.publisher.Publish(routingKey, event); err != nil {
		log.Warn("failed to publish agreement event",
			slog.String("routing_key", routingKey),
			sl.Err(err),
		)
	}
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrAgreementNotFound
	case errors.Is(err, storage.ErrNotPending):
		return ErrInvalidTransition
	case errors.Is(err, storage.ErrAlreadyMember):
		return ErrAlreadyMember
	case errors.Is(err, storage.ErrApartmentRented):
		return ErrApartmentRented
	}
	return err
}

func mapResetError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, storage.ErrAdminTarget):
		return ErrCannotResetAdmin
	}
	return err
}
