package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bms-server/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, req models.CreateAnnouncement) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestCreateAnnouncementHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*ServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "объявление создано",
			body: `{"title":"Отключение воды","description":"Во вторник с 10:00 до 14:00"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, models.CreateAnnouncement{
					Title:       "Отключение воды",
					Description: "Во вторник с 10:00 до 14:00",
				}).Return("an-1", nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "без описания",
			body:           `{"title":"Отключение воды"}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Description is a required field",
		},
		{
			name:           "слишком длинный заголовок",
			body:           `{"title":"` + strings.Repeat("а", 201) + `","description":"текст"}`,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Title is out of range",
		},
		{
			name: "ошибка сервиса",
			body: `{"title":"Собрание","description":"В пятницу"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, mock.Anything).Return("", errors.New("db down"))
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
			New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/announcements", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "an-1", got["data"].(map[string]any)["insertedId"])
			}
			svc.AssertExpectations(t)
		})
	}
}
