// Package listavailable отдаёт доступные купоны.
package listavailable

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

// Service описывает выборку доступных купонов.
type Service interface {
	ListAvailable(ctx context.Context) ([]*models.Coupon, error)
}

// Handler обрабатывает GET /coupons.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Доступные купоны
// @Tags Coupons
// @Produce  json
// @Success 200 {object} response.Response
// @Router /coupons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.listavailable"

	list, err := h.service.ListAvailable(r.Context())
	if err != nil {
		h.log.Error("failed to list coupons",
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
