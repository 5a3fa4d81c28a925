package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/apartment"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListApartments(ctx context.Context, page models.ApartmentPage) ([]*models.Apartment, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Apartment), args.Error(1)
}

func (m *RepoMock) CountApartments(ctx context.Context, filter *models.RentFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) OccupancyCounts(ctx context.Context) (models.AdminStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.AdminStats), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		url            string
		wantPage       models.ApartmentPage
		repoResult     []*models.Apartment
		repoErr        error
		wantStatusCode int
		wantLen        int
	}{
		{
			name:           "без параметров",
			url:            "/apartments",
			wantPage:       models.ApartmentPage{Page: 1, Size: 6},
			repoResult:     []*models.Apartment{{ID: "a"}, {ID: "b"}},
			wantStatusCode: http.StatusOK,
			wantLen:        2,
		},
		{
			name:           "диапазон аренды",
			url:            "/apartments?page=2&size=3&minRent=1000&maxRent=1500",
			wantPage:       models.ApartmentPage{Page: 2, Size: 3, Filter: &models.RentFilter{Min: 1000, Max: 1500}},
			repoResult:     []*models.Apartment{{ID: "c", Rent: 1200}},
			wantStatusCode: http.StatusOK,
			wantLen:        1,
		},
		{
			name:           "неполный диапазон игнорируется",
			url:            "/apartments?minRent=1000",
			wantPage:       models.ApartmentPage{Page: 1, Size: 6},
			repoResult:     []*models.Apartment{},
			wantStatusCode: http.StatusOK,
			wantLen:        0,
		},
		{
			name:           "ошибка хранилища",
			url:            "/apartments",
			wantPage:       models.ApartmentPage{Page: 1, Size: 6},
			repoErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			if tt.repoErr != nil {
				repo.On("ListApartments", mock.Anything, tt.wantPage).Return(nil, tt.repoErr)
			} else {
				repo.On("ListApartments", mock.Anything, tt.wantPage).Return(tt.repoResult, nil)
			}
			svc := apartment.New(repo, nil, logger, apartment.Options{DefaultPageSize: 6, MaxPageSize: 50})

			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			repo.AssertExpectations(t)
			if tt.repoErr != nil {
				return
			}

			var got struct {
				Status string              `json:"status"`
				Data   []*models.Apartment `json:"data"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, "OK", got.Status)
			assert.Len(t, got.Data, tt.wantLen)
		})
	}
}
