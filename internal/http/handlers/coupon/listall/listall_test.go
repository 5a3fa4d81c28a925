package listall

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
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListAll(ctx context.Context) ([]*models.Coupon, error) {
	args := m.Called(ctx)
	if l := args.Get(0); l != nil {
		return l.([]*models.Coupon), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListAllHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		coupons        []*models.Coupon
		err            error
		wantStatusCode int
		wantCount      int
	}{
		{
			name: "несколько купонов",
			coupons: []*models.Coupon{
				{ID: "cp-1", Code: "SPRING10", Discount: 10, IsAvailable: true},
				{ID: "cp-2", Code: "SUMMER5", Discount: 5, IsAvailable: true},
			},
			wantStatusCode: http.StatusOK,
			wantCount:      2,
		},
		{
			name:           "пустой список",
			coupons:        []*models.Coupon{},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "ошибка сервиса",
			err:            errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			svc.On("ListAll", mock.Anything).Return(tt.coupons, tt.err)

			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/coupons", nil))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got struct {
				Data  []models.Coupon `json:"data"`
				Error string          `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.err != nil {
				assert.Equal(t, "internal server error", got.Error)
			} else {
				assert.Len(t, got.Data, tt.wantCount)
			}
			svc.AssertExpectations(t)
		})
	}
}
