package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// PublicHandler handles the anonymous catalog and telemetry ingestion. These
// routes never require a session and never expose pending artifacts.
type PublicHandler struct {
	service artifactcatalog.Service
}

// NewPublicHandler creates a new public catalog handler
func NewPublicHandler(service artifactcatalog.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// Routes returns the public routes
func (h *PublicHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Catalog)
	r.Get("/{id}", h.ViewArtifact)
	r.Post("/{id}/scan", h.RecordScan)

	return r
}

// Catalog lists approved artifacts for the public gallery
func (h *PublicHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.service.PublicCatalog(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, artifacts)
}

// ViewArtifact returns one approved artifact and counts the view. The view
// increment happens through the store's atomic primitive, so concurrent
// visitors never lose counts.
func (h *PublicHandler) ViewArtifact(w http.ResponseWriter, r *http.Request) {
	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid artifact ID", http.StatusBadRequest)
		return
	}

	artifact, err := h.service.PublicArtifact(r.Context(), artifactID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.service.RecordView(r.Context(), artifactID); err == nil {
		artifact.ViewCount++
	}

	render.JSON(w, r, artifact)
}

// RecordScan ingests a QR-code scan, classifying the caller's user agent
func (h *PublicHandler) RecordScan(w http.ResponseWriter, r *http.Request) {
	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid artifact ID", http.StatusBadRequest)
		return
	}

	event, err := h.service.RecordScan(r.Context(), artifactID, r.UserAgent())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, event)
}
