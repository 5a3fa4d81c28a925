package register

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bms-server/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, req models.RegisterUser) (string, bool, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantData       map[string]any
		wantError      string
	}{
		{
			name: "новый пользователь",
			body: `{"email":"new@example.com","name":"New"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, models.RegisterUser{Email: "new@example.com", Name: "New"}).
					Return("u-1", true, nil)
			},
			wantStatusCode: http.StatusOK,
			wantData:       map[string]any{"insertedId": "u-1"},
		},
		{
			name: "повторная регистрация",
			body: `{"email":"old@example.com"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, models.RegisterUser{Email: "old@example.com"}).
					Return("", false, nil)
			},
			wantStatusCode: http.StatusOK,
			wantData:       map[string]any{"message": "user already exists", "insertedId": nil},
		},
		{
			name:           "некорректный email",
			body:           `{"email":"nope"}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email must be a valid email",
		},
		{
			name: "ошибка хранилища",
			body: `{"email":"new@example.com"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Register", mock.Anything, mock.Anything).Return("", false, errors.New("db down"))
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
			New(newNoopLogger(), svc).ServeHTTP(rec,
				httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, tt.wantData, got["data"])
			}
			svc.AssertExpectations(t)
		})
	}
}
