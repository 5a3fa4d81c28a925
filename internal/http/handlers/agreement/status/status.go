// Package status реализует одобрение и отклонение заявки администратором.
//
// Ответ содержит обновлённый договор и состояние каждого шага каскада. Если
// пользователь или квартира не найдены, договор всё равно меняет статус, а поле
// partial в ответе равно true.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/bms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
	"github.com/magabrotheeeer/bms-server/internal/models"
	"github.com/magabrotheeeer/bms-server/internal/services/agreement"
)

// Service описывает смену статуса договора.
type Service interface {
	Transition(ctx context.Context, id, status, actingAdmin string) (models.TransitionResult, error)
}

// Handler обрабатывает PUT /agreement/status/{id}.
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

// Result тело успешного ответа.
type Result struct {
	Agreement models.Agreement `json:"agreement"`
	Cascade   Cascade          `json:"cascade"`
	Partial   bool             `json:"partial"`
}

// Cascade состояние шагов каскада.
type Cascade struct {
	User      string `json:"user"`
	Apartment string `json:"apartment"`
}

// ServeHTTP godoc
// @Summary Сменить статус договора
// @Tags Agreements
// @Accept  json
// @Produce  json
// @Param id path string true "ID договора"
// @Param request body models.ChangeAgreementStatus true "Новый статус"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /agreement/status/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.agreement.status"

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

	var req models.ChangeAgreementStatus
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

	admin, _ := middlewarectx.IdentityFromContext(r.Context())
	result, err := h.service.Transition(r.Context(), id, req.Status, admin.Email)
	if err != nil {
		code, msg := statusFor(err)
		if code == http.StatusInternalServerError {
			log.Error("failed to change agreement status", sl.Err(err))
		} else {
			log.Info("agreement status change refused", slog.String("id", id), sl.Err(err))
		}
		render.Status(r, code)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.OKWithData(Result{
		Agreement: result.Agreement,
		Cascade:   Cascade{User: result.User, Apartment: result.Apartment},
		Partial:   result.Partial(),
	}))
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, agreement.ErrAgreementNotFound):
		return http.StatusNotFound, "agreement not found"
	case errors.Is(err, agreement.ErrInvalidTransition):
		return http.StatusConflict, "agreement is not pending"
	case errors.Is(err, agreement.ErrAlreadyMember):
		return http.StatusConflict, "user already holds a checked agreement"
	case errors.Is(err, agreement.ErrApartmentRented):
		return http.StatusConflict, "apartment is already rented"
	}
	return http.StatusInternalServerError, response.MsgInternal
}
