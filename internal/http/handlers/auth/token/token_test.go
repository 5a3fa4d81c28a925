package token

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
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bms-server/internal/lib/cookie"
	"github.com/magabrotheeeer/bms-server/internal/lib/jwt"
)

type IssuerMock struct {
	mock.Mock
}

func (m *IssuerMock) GenerateToken(identity jwt.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *IssuerMock) TTL() time.Duration {
	return time.Hour
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTokenHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		production     bool
		setupMock      func(*IssuerMock)
		wantStatusCode int
		wantCookie     bool
		wantError      string
	}{
		{
			name:       "токен выдан",
			body:       `{"email":"tenant@example.com","name":"Tenant"}`,
			production: false,
			setupMock: func(m *IssuerMock) {
				m.On("GenerateToken", jwt.Identity{Email: "tenant@example.com", Name: "Tenant"}).
					Return("signed.jwt.token", nil)
			},
			wantStatusCode: http.StatusOK,
			wantCookie:     true,
		},
		{
			name:       "боевое окружение",
			body:       `{"email":"tenant@example.com"}`,
			production: true,
			setupMock: func(m *IssuerMock) {
				m.On("GenerateToken", jwt.Identity{Email: "tenant@example.com"}).Return("signed.jwt.token", nil)
			},
			wantStatusCode: http.StatusOK,
			wantCookie:     true,
		},
		{
			name:           "некорректный json",
			body:           `not a json`,
			setupMock:      func(_ *IssuerMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "email не указан",
			body:           `{"name":"Tenant"}`,
			setupMock:      func(_ *IssuerMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Email is a required field",
		},
		{
			name: "ошибка подписи",
			body: `{"email":"tenant@example.com"}`,
			setupMock: func(m *IssuerMock) {
				m.On("GenerateToken", mock.Anything).Return("", errors.New("boom"))
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := new(IssuerMock)
			tt.setupMock(issuer)
			handler := New(newNoopLogger(), issuer, cookie.Options{Production: tt.production})

			req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, map[string]any{"success": true}, got["data"])
			}

			cookies := rec.Result().Cookies()
			if !tt.wantCookie {
				assert.Empty(t, cookies)
				return
			}
			require.Len(t, cookies, 1)
			c := cookies[0]
			assert.Equal(t, cookie.Name, c.Name)
			assert.Equal(t, "signed.jwt.token", c.Value)
			assert.True(t, c.HttpOnly)
			assert.Equal(t, 3600, c.MaxAge)
			if tt.production {
				assert.True(t, c.Secure)
				assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
			} else {
				assert.False(t, c.Secure)
				assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
			}
			issuer.AssertExpectations(t)
		})
	}
}
