package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/bms-server/internal/migrations"
)

// testDataFactory создаёт строки напрямую, минуя методы хранилища.
type testDataFactory struct {
	storage *Storage
}

func newTestDataFactory(s *Storage) *testDataFactory {
	return &testDataFactory{storage: s}
}

func (f *testDataFactory) createUser(t *testing.T, email, role string) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO users (email, name, role) VALUES ($1, $2, $3) RETURNING id`,
		email, "Test "+role, role).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createApartment(t *testing.T, block, number string, rent int) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO apartments (floor_no, block_name, apartment_no, rent)
		VALUES (1, $1, $2, $3) RETURNING id`, block, number, rent).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) createAgreement(t *testing.T, email, apartmentID string) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO agreements (user_email, user_name, apartment_id, floor_no,
		block_name, apartment_no, rent)
		SELECT $1, 'Tenant', id, floor_no, block_name, apartment_no, rent FROM apartments WHERE id = $2
		RETURNING id`, email, apartmentID).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *testDataFactory) apartmentRented(t *testing.T, id string) bool {
	t.Helper()
	var rented bool
	require.NoError(t, f.storage.DB.QueryRow(`SELECT is_rented FROM apartments WHERE id = $1`, id).Scan(&rented))
	return rented
}

func (f *testDataFactory) agreementStatus(t *testing.T, id string) string {
	t.Helper()
	var status string
	require.NoError(t, f.storage.DB.QueryRow(`SELECT status FROM agreements WHERE id = $1`, id).Scan(&status))
	return status
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции проекта.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("bms_test"),
		postgres.WithUsername("bms"),
		postgres.WithPassword("bms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(s.DB, migrationsPath))

	// Сид с квартирами не нужен: тесты создают данные сами.
	_, err = s.DB.Exec(`DELETE FROM apartments`)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return s, cleanup
}
