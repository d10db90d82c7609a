package authhandler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"workdesk/internal/domain/auth"
	"workdesk/internal/transport/http/api"
	"workdesk/internal/transport/http/middleware"
	"workdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{Service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	switch {
	case err == nil:
		api.Success(w, result)
	case errors.Is(err, auth.ErrEmployeeNotFound):
		api.Fail(w, http.StatusBadRequest, "Employee not found.", reqID)
	case errors.Is(err, auth.ErrInvalidPassword):
		api.Fail(w, http.StatusBadRequest, "Invalid password.", reqID)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("login failed")
		api.Fail(w, http.StatusInternalServerError, "Server error", reqID)
	}
}
