package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bms-server/internal/http/response"
)

// TargetSource достаёт из запроса email, к данным которого идёт обращение.
type TargetSource func(r *http.Request) string

// FromURLParam берёт email из параметра маршрута chi.
func FromURLParam(name string) TargetSource {
	return func(r *http.Request) string {
		return chi.URLParam(r, name)
	}
}

// FromQuery берёт email из query-параметра.
func FromQuery(name string) TargetSource {
	return func(r *http.Request) string {
		return r.URL.Query().Get(name)
	}
}

// RequireSelf пропускает запрос, только если запрошенный email совпадает с владельцем токена.
// Роль при этом не учитывается: администратор тоже получает 403 на чужие данные.
func RequireSelf(source TargetSource, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireSelf"

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

			target := source(r)
			if target == "" {
				log.Info("target email is missing")
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("email is required"))
				return
			}

			if target != identity.Email {
				log.Info("access to foreign data denied",
					slog.String("email", identity.Email),
					slog.String("target", target),
				)
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(response.MsgForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
