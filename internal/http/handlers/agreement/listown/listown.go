// Package listown отдаёт договоры владельца токена.
package listown

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
)

// Service описывает выборку договоров пользователя.
type Service interface {
	ListByEmail(ctx context.Context, email string) ([]*models.Agreement, error)
}

// Handler обрабатывает GET /agreements/{email}. Совпадение email с владельцем
// токена проверяет RequireSelf.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои договоры
// @Tags Agreements
// @Produce  json
// @Param email path string true "Email владельца токена"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /agreements/{email} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.agreement.listown"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.service.ListByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		log.Error("failed to list agreements", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(list))
}
