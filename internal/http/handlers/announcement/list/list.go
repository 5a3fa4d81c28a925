// Package list отдаёт объявления аутентифицированным пользователям.
package list

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

// Service описывает выборку объявлений.
type Service interface {
	List(ctx context.Context) ([]*models.Announcement, error)
}

// Handler обрабатывает GET /announcements.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Объявления
// @Tags Announcements
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /announcements [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.announcement.list"

	list, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("failed to list announcements",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(list))
}
