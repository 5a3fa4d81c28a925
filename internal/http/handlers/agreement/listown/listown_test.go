package listown

import (
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

	"github.com/magabrotheeeer/bms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/bms-server/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListByEmail(ctx context.Context, email string) ([]*models.Agreement, error) {
	args := m.Called(ctx, email)
	if l := args.Get(0); l != nil {
		return l.([]*models.Agreement), args.Error(1)
	}
	return nil, args.Error(1)
}

// newRouter собирает маршрут так же, как в приложении: владелец email из пути.
func newRouter(svc Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.With(middlewarectx.RequireSelf(middlewarectx.FromURLParam("email"), logger)).
		Get("/agreements/{email}", New(logger, svc).ServeHTTP)
	return r
}

func requestAs(email, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return req.WithContext(middlewarectx.WithIdentity(req.Context(), jwt.Identity{Email: email}))
}

func TestListOwnHandler(t *testing.T) {
	t.Run("свои договоры", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListByEmail", mock.Anything, "tenant@example.com").Return([]*models.Agreement{
			{ID: "agr-1", UserEmail: "tenant@example.com", Status: models.AgreementPending},
		}, nil)

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, requestAs("tenant@example.com", "/agreements/tenant@example.com"))

		assert.Equal(t, http.StatusOK, rec.Code)
		var got struct {
			Data []models.Agreement `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.Len(t, got.Data, 1)
		assert.Equal(t, models.AgreementPending, got.Data[0].Status)
		svc.AssertExpectations(t)
	})

	t.Run("чужие договоры", func(t *testing.T) {
		svc := new(ServiceMock)

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, requestAs("tenant@example.com", "/agreements/other@example.com"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertNotCalled(t, "ListByEmail", mock.Anything, mock.Anything)
	})

	t.Run("ошибка сервиса", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("ListByEmail", mock.Anything, "tenant@example.com").Return(nil, errors.New("db down"))

		rec := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rec, requestAs("tenant@example.com", "/agreements/tenant@example.com"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
