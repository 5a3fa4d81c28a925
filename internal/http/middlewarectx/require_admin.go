package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/storage"
)

// UserProvider отдаёт актуальную запись пользователя из хранилища.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// RequireAdmin пропускает запрос только если у владельца токена роль admin.
// Роль читается из хранилища на каждый запрос, поэтому её смена действует сразу.
// Должен стоять после Authenticate.
func RequireAdmin(users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdmin"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				log.Info("identity missing in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error(response.MsgUnauthorized))
				return
			}

			user, err := users.GetUserByEmail(r.Context(), identity.Email)
			if errors.Is(err, storage.ErrNotFound) {
				log.Info("user not registered", slog.String("email", identity.Email))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(response.MsgForbidden))
				return
			}
			if err != nil {
				log.Error("failed to get user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error(response.MsgInternal))
				return
			}

			if user.Role != models.RoleAdmin {
				log.Info("admin role required", slog.String("email", identity.Email), slog.String("role", user.Role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(response.MsgForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
