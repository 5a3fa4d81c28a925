// Package reset реализует сброс участника до обычного пользователя администратором:
// одобренный договор завершается, квартира освобождается.
package reset

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/bms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/agreement"
)

// Service описывает сброс участника.
type Service interface {
	ResetToTenant(ctx context.Context, userID, actingAdmin string) (models.ResetResult, error)
}

// Handler обрабатывает PATCH /users/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сбросить участника до роли user
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.reset"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := uuid.Validate(id); err != nil {
		log.Info("invalid id", slog.String("id", id))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidID))
		return
	}

	admin, _ := middlewarectx.IdentityFromContext(r.Context())
	result, err := h.service.ResetToTenant(r.Context(), id, admin.Email)
	switch {
	case errors.Is(err, agreement.ErrUserNotFound):
		log.Info("user not found", slog.String("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case errors.Is(err, agreement.ErrCannotResetAdmin):
		log.Info("attempt to reset admin", slog.String("id", id))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("cannot reset admin"))
		return
	case err != nil:
		log.Error("failed to reset tenant", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	render.JSON(w, r, response.OKWithData(result))
}
