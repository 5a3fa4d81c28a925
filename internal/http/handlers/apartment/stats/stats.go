// Package stats отдаёт администратору статистику заполненности здания.
package stats

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

// Service описывает расчёт статистики.
type Service interface {
	Stats(ctx context.Context) (models.AdminStats, error)
}

// Handler обрабатывает GET /admin-stats.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика здания
// @Tags Admin
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin-stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.apartment.stats"

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.log.Error("failed to compute stats",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(stats))
}
