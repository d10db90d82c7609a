package directoryhandler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"workdesk/internal/domain/directory"
	"workdesk/internal/transport/http/api"
	"workdesk/internal/transport/http/middleware"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.handleList)
	r.Get("/employees/{email}", h.handlePeers)
	r.Get("/api/reports/employees.pdf", h.handleExportPDF)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.List(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("list employees failed")
		api.Fail(w, http.StatusInternalServerError, "Could not load employees.", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, entries)
}

func (h *Handler) handlePeers(w http.ResponseWriter, r *http.Request) {
	email, err := pathParam(r, "email")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid email", middleware.GetRequestID(r.Context()))
		return
	}
	peers, err := h.Service.Peers(r.Context(), email)
	if errors.Is(err, directory.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "Employee not found.", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("email", email).Msg("list department peers failed")
		api.Fail(w, http.StatusInternalServerError, "Could not load employees.", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, peers)
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.ExportPDF(r.Context(), &buf); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("export directory pdf failed")
		api.Fail(w, http.StatusInternalServerError, "Could not export employees.", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// pathParam decodes a URL parameter. chi matches on RawPath when the client
// escaped characters such as "@", and on the already decoded Path otherwise.
func pathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}
