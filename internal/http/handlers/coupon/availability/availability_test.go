package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/coupon"
)

const couponID = "c3e8a1f4-6b2d-4a97-8e5c-1f0d7b3a9c62"

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) SetAvailability(ctx context.Context, id string, isAvailable bool) (*models.Coupon, error) {
	args := m.Called(ctx, id, isAvailable)
	if c := args.Get(0); c != nil {
		return c.(*models.Coupon), args.Error(1)
	}
	return nil, args.Error(1)
}

func newRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/coupons/"+id, bytes.NewBufferString(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestAvailabilityHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantError      string
		wantAvailable  bool
	}{
		{
			name: "купон выключен",
			id:   couponID,
			body: `{"isAvailable":false}`,
			setupMock: func(m *ServiceMock) {
				m.On("SetAvailability", mock.Anything, couponID, false).
					Return(&models.Coupon{ID: couponID, Code: "SPRING10", IsAvailable: false}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantAvailable:  false,
		},
		{
			name: "купон включён",
			id:   couponID,
			body: `{"isAvailable":true}`,
			setupMock: func(m *ServiceMock) {
				m.On("SetAvailability", mock.Anything, couponID, true).
					Return(&models.Coupon{ID: couponID, Code: "SPRING10", IsAvailable: true}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantAvailable:  true,
		},
		{
			name:           "нет поля isAvailable",
			id:             couponID,
			body:           `{}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field IsAvailable is a required field",
		},
		{
			name:           "некорректный json",
			id:             couponID,
			body:           `{"isAvailable":`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "id не является uuid",
			id:             "spring10",
			body:           `{"isAvailable":true}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid id",
		},
		{
			name: "купон не найден",
			id:   couponID,
			body: `{"isAvailable":true}`,
			setupMock: func(m *ServiceMock) {
				m.On("SetAvailability", mock.Anything, couponID, true).Return(nil, coupon.ErrNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "coupon not found",
		},
		{
			name: "ошибка сервиса",
			id:   couponID,
			body: `{"isAvailable":true}`,
			setupMock: func(m *ServiceMock) {
				m.On("SetAvailability", mock.Anything, couponID, true).Return(nil, errors.New("db down"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(rec, newRequest(tt.id, tt.body))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data := got["data"].(map[string]any)
				assert.Equal(t, tt.wantAvailable, data["isAvailable"])
			}
			if tt.wantStatusCode == http.StatusBadRequest {
				svc.AssertNotCalled(t, "SetAvailability", mock.Anything, mock.Anything, mock.Anything)
			}
			svc.AssertExpectations(t)
		})
	}
}
