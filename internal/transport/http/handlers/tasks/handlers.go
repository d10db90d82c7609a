package taskshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"workdesk/internal/domain/tasks"
	"workdesk/internal/transport/http/api"
	"workdesk/internal/transport/http/middleware"
	"workdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *tasks.Service
}

func NewHandler(service *tasks.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assigned-tasks/{employeeId}", h.handleAssigned)
}

func (h *Handler) handleAssigned(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, err := shared.PathID(r, "employeeId")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid employee id", reqID)
		return
	}

	assigned, err := h.Service.ForEmployee(r.Context(), employeeID)
	if errors.Is(err, tasks.ErrNoAssignedTasks) {
		api.Fail(w, http.StatusNotFound, "No assigned tasks.", reqID)
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("employeeId", employeeID).Msg("list assigned tasks failed")
		api.Fail(w, http.StatusInternalServerError, "Server error", reqID)
		return
	}
	api.Success(w, assigned)
}
