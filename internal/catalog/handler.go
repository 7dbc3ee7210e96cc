// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ticketdesk/internal/inventory"
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
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.handleListEvents)
		r.Post("/", h.handleCreateEvent)
		r.Get("/{id}", h.handleGetEvent)
		r.Get("/{id}/items", h.handleListItems)
	})
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.handleCreateItem)
		r.Get("/{id}", h.handleGetItem)
		r.Patch("/{id}", h.handleUpdateItem)
		r.Delete("/{id}", h.handleDeleteItem)
	})
	r.Get("/search", h.handleSearch)
	return r
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(events)
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizationID uuid.UUID  `json:"organization_id"`
		Name           string     `json:"name"`
		Description    string     `json:"description"`
		Location       string     `json:"location"`
		StartDate      time.Time  `json:"start_date"`
		EndDate        time.Time  `json:"end_date"`
		IsParent       bool       `json:"is_parent"`
		ParentEventID  *uuid.UUID `json:"parent_event_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate) {
		http.Error(w, "end_date must not be before start_date", http.StatusBadRequest)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), CreateEventInput{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		IsParent:       req.IsParent,
		ParentEventID:  req.ParentEventID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

func (h *Handler) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid event ID", http.StatusBadRequest)
		return
	}

	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(event)
}

func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid event ID", http.StatusBadRequest)
		return
	}

	items, err := h.service.ListItemsByEvent(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(items)
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID       uuid.UUID  `json:"event_id"`
		Title         string     `json:"title"`
		Category      string     `json:"category"`
		Description   string     `json:"description"`
		Price         float64    `json:"price"`
		Quantity      int        `json:"quantity"`
		MaxPerOrder   int        `json:"max_per_order"`
		StartSaleDate *time.Time `json:"start_sale_date"`
		EndSaleDate   *time.Time `json:"end_sale_date"`
		IsHidden      bool       `json:"is_hidden"`
		SortOrder     int        `json:"sort_order"`
		ItemType      string     `json:"item_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		http.Error(w, "price must not be negative", http.StatusBadRequest)
		return
	}
	if req.Quantity < 0 {
		http.Error(w, "quantity must not be negative", http.StatusBadRequest)
		return
	}

	item, err := h.service.CreateItem(r.Context(), CreateItemInput{
		EventID:       req.EventID,
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		MaxPerOrder:   req.MaxPerOrder,
		StartSaleDate: req.StartSaleDate,
		EndSaleDate:   req.EndSaleDate,
		IsHidden:      req.IsHidden,
		SortOrder:     req.SortOrder,
		ItemType:      req.ItemType,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title           string     `json:"title"`
		Category        string     `json:"category"`
		Description     string     `json:"description"`
		Price           float64    `json:"price"`
		StartSaleDate   *time.Time `json:"start_sale_date"`
		EndSaleDate     *time.Time `json:"end_sale_date"`
		Status          string     `json:"status"`
		IsHidden        bool       `json:"is_hidden"`
		SortOrder       int        `json:"sort_order"`
		ItemType        string     `json:"item_type"`
		StockAdjustment *int       `json:"stock_adjustment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		http.Error(w, "price must not be negative", http.StatusBadRequest)
		return
	}
	if req.StockAdjustment != nil && *req.StockAdjustment == 0 {
		http.Error(w, "stock_adjustment must not be 0", http.StatusUnprocessableEntity)
		return
	}

	adjustment := 0
	if req.StockAdjustment != nil {
		adjustment = *req.StockAdjustment
	}

	item, err := h.service.UpdateItem(r.Context(), id, UpdateItemInput{
		Title:           req.Title,
		Category:        req.Category,
		Description:     req.Description,
		Price:           req.Price,
		StartSaleDate:   req.StartSaleDate,
		EndSaleDate:     req.EndSaleDate,
		Status:          req.Status,
		IsHidden:        req.IsHidden,
		SortOrder:       req.SortOrder,
		ItemType:        req.ItemType,
		StockAdjustment: adjustment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(item)
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid item ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteItem(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing search query", http.StatusBadRequest)
		return
	}

	items, err := h.service.SearchItems(r.Context(), query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(items)
}

// writeError maps the service error taxonomy to HTTP statuses. An
// insufficient-stock rejection is an expected outcome, not a fault; anything
// outside the taxonomy is an infrastructure failure safe to retry.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, inventory.ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, inventory.ErrInsufficientStock):
		h.logger.Warn("stock adjustment rejected", zap.Error(err))
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, inventory.ErrZeroDelta):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, ErrParentEventItems):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		h.logger.Error("request failed",
			zap.Error(err),
			zap.Bool("lock_contention", inventory.IsLockContention(err)),
		)
		http.Error(w, "temporary failure, please retry", http.StatusServiceUnavailable)
	}
}
