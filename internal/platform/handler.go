// internal/platform/handler.go
package platform

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
	r.Route("/organizations", func(r chi.Router) {
		r.Get("/", h.handleListOrganizations)
		r.Post("/", h.handleCreateOrganization)
		r.Get("/{id}", h.handleGetOrganization)
	})
	r.Route("/banners", func(r chi.Router) {
		r.Get("/", h.handleListBanners)
		r.Post("/", h.handleCreateBanner)
		r.Delete("/{id}", h.handleDeleteBanner)
	})
	r.Route("/fees", func(r chi.Router) {
		r.Get("/", h.handleListFeeConfigs)
		r.Get("/active", h.handleActiveFeeConfig)
		r.Put("/{id}", h.handleUpdateFeeConfig)
	})
	return r
}

func (h *Handler) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var in CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if in.Name == "" || in.Slug == "" {
		http.Error(w, "name and slug are required", http.StatusBadRequest)
		return
	}
	org, err := h.service.CreateOrganization(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(org)
}

func (h *Handler) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid organization ID", http.StatusBadRequest)
		return
	}
	org, err := h.service.GetOrganization(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(org)
}

func (h *Handler) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.service.ListOrganizations(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(orgs)
}

func (h *Handler) handleCreateBanner(w http.ResponseWriter, r *http.Request) {
	var in CreateBannerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if in.Title == "" || in.ImageURL == "" {
		http.Error(w, "title and image_url are required", http.StatusBadRequest)
		return
	}
	banner, err := h.service.CreateBanner(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(banner)
}

func (h *Handler) handleListBanners(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	banners, err := h.service.ListBanners(r.Context(), activeOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(banners)
}

func (h *Handler) handleDeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid banner ID", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteBanner(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListFeeConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.service.ListFeeConfigs(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(configs)
}

func (h *Handler) handleActiveFeeConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.ActiveFeeConfig(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(cfg)
}

func (h *Handler) handleUpdateFeeConfig(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid fee config ID", http.StatusBadRequest)
		return
	}
	var in UpdateFeeConfigInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if in.Percentage < 0 || in.FixedFee < 0 {
		http.Error(w, "percentage and fixed_fee must not be negative", http.StatusUnprocessableEntity)
		return
	}
	cfg, err := h.service.UpdateFeeConfig(r.Context(), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	json.NewEncoder(w).Encode(cfg)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOrganizationNotFound),
		errors.Is(err, ErrBannerNotFound),
		errors.Is(err, ErrFeeConfigNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSlugTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("platform request failed", zap.Error(err))
		http.Error(w, "temporary failure, please retry", http.StatusServiceUnavailable)
	}
}
