// internal/scanner/handler.go
package scanner

import (
	"encoding/json"
	"errors"
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
	r.Post("/events/{eventID}/scan", h.handleScan)
	return r
}

type scanRequest struct {
	TicketID string `json:"ticket_id"`
	Mode     string `json:"mode"`
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		http.Error(w, "invalid event ID", http.StatusBadRequest)
		return
	}

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		http.Error(w, "invalid ticket ID", http.StatusBadRequest)
		return
	}
	mode := Mode(req.Mode)
	if mode == "" {
		mode = ModeCheckIn
	}

	result, err := h.service.Scan(r.Context(), eventID, ticketID, mode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTicketNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadyScanned):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrWrongEvent), errors.Is(err, ErrTicketNotActive):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrInvalidMode):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("scan failed", zap.Error(err))
		http.Error(w, "temporary failure, please retry", http.StatusServiceUnavailable)
	}
}
