package todoshandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"workdesk/internal/domain/todos"
	"workdesk/internal/transport/http/api"
	"workdesk/internal/transport/http/middleware"
	"workdesk/internal/transport/http/shared"
)

type Handler struct {
	Service *todos.Service
}

func NewHandler(service *todos.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/todos", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		// GET takes the owner's employee id; PUT and DELETE take a todo id.
		r.Get("/{id}", h.handleList)
		r.Put("/{id}", h.handleSetCompleted)
		r.Delete("/{id}", h.handleDelete)
	})
}

type createRequest struct {
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateRequest struct {
	IsCompleted *bool `json:"is_completed"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	userID, err := shared.PathID(r, "id")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid user id", reqID)
		return
	}
	items, err := h.Service.List(r.Context(), userID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("userId", userID).Msg("list todos failed")
		api.Fail(w, http.StatusInternalServerError, "Could not load todos.", reqID)
		return
	}
	api.Success(w, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload createRequest
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid request payload", reqID)
		return
	}

	created, err := h.Service.Create(r.Context(), todos.NewTodo{
		UserID:      payload.UserID,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if errors.Is(err, todos.ErrInvalidTodo) {
		api.Fail(w, http.StatusBadRequest, "user_id and title are required", reqID)
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("userId", payload.UserID).Msg("create todo failed")
		api.Fail(w, http.StatusInternalServerError, "Could not create todo.", reqID)
		return
	}
	api.Created(w, created)
}

func (h *Handler) handleSetCompleted(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid todo id", reqID)
		return
	}
	var payload updateRequest
	if err := shared.DecodeJSON(r, &payload); err != nil || payload.IsCompleted == nil {
		api.Fail(w, http.StatusBadRequest, "is_completed is required", reqID)
		return
	}

	updated, err := h.Service.SetCompleted(r.Context(), id, *payload.IsCompleted)
	if errors.Is(err, todos.ErrTodoNotFound) {
		api.Fail(w, http.StatusNotFound, "Todo not found.", reqID)
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("todoId", id).Msg("update todo failed")
		api.Fail(w, http.StatusInternalServerError, "Update failed.", reqID)
		return
	}
	api.Success(w, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	id, err := shared.PathID(r, "id")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid todo id", reqID)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int64("todoId", id).Msg("delete todo failed")
		api.Fail(w, http.StatusInternalServerError, "Delete failed.", reqID)
		return
	}
	api.NoContent(w)
}
