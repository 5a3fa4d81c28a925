package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/payment"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, email string, req models.CreatePayment) (string, error) {
	args := m.Called(ctx, email, req)
	return args.String(0), args.Error(1)
}

const body = `{"apartmentId":"8b0f7a54-5d2c-4f4e-9a59-1f2a3b4c5d6e","month":"March","rent":1500,
	"discount":10,"amount":1350,"couponCode":"SAVE10","transactionId":"pi_1","email":"someone-else@example.com"}`

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("email берётся из токена", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Create", mock.Anything, "m@example.com", mock.MatchedBy(func(p models.CreatePayment) bool {
			return p.Amount == 1350 && p.TransactionID == "pi_1"
		})).Return("p-1", nil)

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(body))
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), jwt.Identity{Email: "m@example.com"}))
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, map[string]any{"insertedId": "p-1"}, got["data"])
		svc.AssertExpectations(t)
	})

	t.Run("повтор транзакции", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return("", payment.ErrDuplicateTransaction)

		req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(body))
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), jwt.Identity{Email: "m@example.com"}))
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("без токена", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
