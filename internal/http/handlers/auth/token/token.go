// Package token выдаёт JWT для идентичности, подтверждённой внешним
// провайдером входа, и кладёт его в HttpOnly cookie.
package token

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bms-server/internal/http/response"
	"github.com/magabrotheeeer/bms-server/internal/lib/cookie"
	"github.com/magabrotheeeer/bms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/bms-server/internal/lib/sl"
)

// Request идентичность пользователя, для которой выпускается токен.
type Request struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"max=100"`
}

// Issuer выпускает токены.
type Issuer interface {
	GenerateToken(identity jwt.Identity) (string, error)
	TTL() time.Duration
}

// Handler обрабатывает POST /jwt.
type Handler struct {
	log      *slog.Logger
	issuer   Issuer
	cookies  cookie.Options
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, issuer Issuer, cookies cookie.Options) *Handler {
	return &Handler{
		log:      log,
		issuer:   issuer,
		cookies:  cookies,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выпустить токен
// @Description Выпускает JWT и устанавливает cookie token.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентичность пользователя"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /jwt [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	signed, err := h.issuer.GenerateToken(jwt.Identity{Email: req.Email, Name: req.Name})
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternal))
		return
	}

	cookie.Set(w, h.cookies, signed, h.issuer.TTL())
	log.Info("token issued", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success": true,
	}))
}
