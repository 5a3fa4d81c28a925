// Package list отдаёт страницу квартир с необязательным фильтром по аренде.
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

// Service описывает постраничную выдачу квартир.
type Service interface {
	ParsePage(page, size, minRent, maxRent string) models.ApartmentPage
	List(ctx context.Context, page models.ApartmentPage) ([]*models.Apartment, error)
}

// Handler обрабатывает GET /apartments.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список квартир
// @Tags Apartments
// @Produce  json
// @Param page query int false "Номер страницы, с 1"
// @Param size query int false "Размер страницы"
// @Param minRent query int false "Минимальная аренда"
// @Param maxRent query int false "Максимальная аренда"
// @Success 200 {object} response.Response
// @Router /apartments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.apartment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	page := h.service.ParsePage(q.Get("page"), q.Get("size"), q.Get("minRent"), q.Get("maxRent"))

	list, err := h.service.List(r.Context(), page)
	if err != nil {
		log.Error("failed to list apartments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(list))
}
