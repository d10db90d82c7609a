package systemhandler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"workdesk/internal/transport/http/api"
	"workdesk/internal/transport/http/middleware"
)

const readyTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Snapshotter interface {
	Snapshot() map[string]any
}

type Handler struct {
	DB      Pinger
	Metrics Snapshotter
}

// NewHandler serves liveness and readiness. A nil metrics source leaves
// /api/metrics unregistered.
func NewHandler(db Pinger, metrics Snapshotter) *Handler {
	return &Handler{DB: db, Metrics: metrics}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/api/health", h.handleHealth)
	r.Get("/readyz", h.handleReady)
	if h.Metrics != nil {
		r.Get("/api/metrics", h.handleMetrics)
	}
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Todo + Chat API is running"))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.Success(w, map[string]string{"status": "API is running"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("database not ready")
		api.Fail(w, http.StatusServiceUnavailable, "db not ready", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "ready"})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot())
}
