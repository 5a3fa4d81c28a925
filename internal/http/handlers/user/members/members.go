// Package members отдаёт администратору список участников.
package members

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
)

// Service описывает выборку участников.
type Service interface {
	Members(ctx context.Context) ([]*models.User, error)
}

// Handler обрабатывает GET /members.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Участники
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /members [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.members"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.Members(r.Context())
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Debug("members listed", slog.Int("count", len(list)))
	render.JSON(w, r, response.OKWithData(list))
}
