// Package submit принимает заявку на аренду квартиры от владельца токена.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/agreement"
)

// Service описывает подачу заявки.
type Service interface {
	Submit(ctx context.Context, email, name string, req models.SubmitAgreement) (string, error)
}

// Handler обрабатывает POST /agreements.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подать заявку на аренду
// @Description Создаёт договор в статусе pending. Данные квартиры копируются в договор.
// @Tags Agreements
// @Accept  json
// @Produce  json
// @Param request body models.SubmitAgreement true "Квартира"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /agreements [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.agreement.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFromContext(r.Context())
	if !ok {
		log.Error("identity not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	var req models.SubmitAgreement
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequest))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Submit(r.Context(), identity.Email, identity.Name, req)
	if errors.Is(err, agreement.ErrApartmentNotFound) {
		log.Info("apartment not found", slog.String("apartment_id", req.ApartmentID))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("apartment not found"))
		return
	}
	if err != nil {
		log.Error("failed to submit agreement", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	log.Info("agreement submitted", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"insertedId": id,
	}))
}
