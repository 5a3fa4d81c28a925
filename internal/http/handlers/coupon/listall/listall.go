// Package listall отдаёт администратору все купоны, включая выключенные.
package listall

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

// Service описывает выборку всех купонов.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Coupon, error)
}

// Handler обрабатывает GET /admin/coupons.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Все купоны
// @Tags Coupons
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/coupons [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.listall"

	list, err := h.service.ListAll(r.Context())
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
