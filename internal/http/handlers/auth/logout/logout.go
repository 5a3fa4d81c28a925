// Package logout снимает cookie с токеном. Сервер не хранит выданные токены,
// поэтому отзыв сводится к удалению cookie у клиента.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/cookie"
)

// Handler обрабатывает POST /logout.
type Handler struct {
	log     *slog.Logger
	cookies cookie.Options
}

// New создаёт Handler.
func New(log *slog.Logger, cookies cookie.Options) *Handler {
	return &Handler{log: log, cookies: cookies}
}

// ServeHTTP godoc
// @Summary Выйти
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	cookie.Clear(w, h.cookies)
	h.log.Debug("token cookie cleared",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success": true,
	}))
}
