// internal/analytics/handler.go
package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/events/{id}/report", h.handleReport)
	return r
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid event ID", http.StatusBadRequest)
		return
	}
	refresh := r.URL.Query().Get("refresh") == "true"

	report, err := h.service.Report(r.Context(), id, refresh)
	if err != nil {
		h.logger.Error("analytics report failed", zap.String("event_id", id.String()), zap.Error(err))
		http.Error(w, "temporary failure, please retry", http.StatusServiceUnavailable)
		return
	}
	json.NewEncoder(w).Encode(report)
}
