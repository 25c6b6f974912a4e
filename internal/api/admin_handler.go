package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// AdminHandler handles categories, the activity log and analytics
type AdminHandler struct {
	service artifactcatalog.Service
	auth    *Authenticator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service artifactcatalog.Service, auth *Authenticator) *AdminHandler {
	return &AdminHandler{service: service, auth: auth}
}

// Routes returns the category, activity log and analytics routes
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)

	r.Get("/activity", h.ListActivity)
	r.Get("/analytics", h.Analytics)
	r.Get("/stats", h.Stats)

	return r
}

// CreateCategoryRequest is the request body for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// ListCategories returns all categories ordered by name
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, categories)
}

// CreateCategory creates a new category
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	_, principal, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), artifactcatalog.CreateCategoryRequest{
		Actor: principal,
		Name:  req.Name,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, category)
}

// DeleteCategory deletes a category
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	_, principal, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	categoryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid category ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), categoryID, principal); err != nil {
		renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

// ListActivity returns the activity log, newest first
func (h *AdminHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	role, _, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
	}

	entries, err := h.service.ListActivity(r.Context(), role, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, entries)
}

// Analytics returns the derived telemetry reports
func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	role, _, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	report, err := h.service.Analytics(r.Context(), role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, report)
}

// Stats returns the dashboard summary counts
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	role, _, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	stats, err := h.service.Stats(r.Context(), role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, stats)
}
