package messageshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"workdesk/internal/domain/messages"
	"workdesk/internal/transport/http/api"
	"workdesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *messages.Service
}

func NewHandler(service *messages.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/messages", h.handleHistory)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.History(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("load message history failed")
		api.Fail(w, http.StatusInternalServerError, "Could not load messages.", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, history)
}
