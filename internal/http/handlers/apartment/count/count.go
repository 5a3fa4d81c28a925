// Package count отдаёт число квартир под фильтром по аренде.
package count

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/apartment"
)

// Service описывает подсчёт квартир.
type Service interface {
	Count(ctx context.Context, filter *models.RentFilter) (int, error)
}

// Handler обрабатывает GET /apartmentsCount.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Число квартир
// @Tags Apartments
// @Produce  json
// @Param minRent query int false "Минимальная аренда"
// @Param maxRent query int false "Максимальная аренда"
// @Success 200 {object} response.Response
// @Router /apartmentsCount [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.apartment.count"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	n, err := h.service.Count(r.Context(), apartment.ParseRentFilter(q.Get("minRent"), q.Get("maxRent")))
	if err != nil {
		log.Error("failed to count apartments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"count": n,
	}))
}
