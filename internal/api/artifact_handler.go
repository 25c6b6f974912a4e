package api

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// ArtifactHandler handles HTTP requests for artifact management
type ArtifactHandler struct {
	service artifactcatalog.Service
	auth    *Authenticator
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(service artifactcatalog.Service, auth *Authenticator) *ArtifactHandler {
	return &ArtifactHandler{service: service, auth: auth}
}

// Routes returns the routes for artifact management
func (h *ArtifactHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListArtifacts)
	r.Post("/", h.CreateArtifact)
	r.Get("/{id}", h.GetArtifact)
	r.Put("/{id}", h.UpdateArtifact)
	r.Delete("/{id}", h.DeleteArtifact)
	r.Post("/{id}/approve", h.ApproveArtifact)

	return r
}

// artifactFields is the JSON shape shared by create and update requests
type artifactFields struct {
	Name                 string `json:"name"`
	CategoryID           string `json:"category_id,omitempty"`
	Description          string `json:"description,omitempty"`
	HistoricalBackground string `json:"historical_background,omitempty"`
	DateOrigin           string `json:"date_origin,omitempty"`
	LocationFound        string `json:"location_found,omitempty"`
	DisplayLocation      string `json:"display_location,omitempty"`
	ConditionStatus      string `json:"condition_status,omitempty"`
}

// SaveResponse reports the save outcome, including partial image attachment
type SaveResponse struct {
	Artifact       *artifactcatalog.Artifact `json:"artifact"`
	ImagesAttached int                       `json:"images_attached"`
	QRCodeSet      bool                      `json:"qr_code_set"`
	Error          string                    `json:"error,omitempty"`
}

// parseSaveRequest reads artifact fields and optional image files. Fields
// come either as a JSON body or as a multipart form with a "fields" part and
// any number of "images" file parts.
func parseSaveRequest(r *http.Request) (artifactFields, []artifactcatalog.ImageUpload, error) {
	var fields artifactFields

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return fields, nil, err
		}
		if raw := r.FormValue("fields"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &fields); err != nil {
				return fields, nil, err
			}
		} else {
			fields.Name = r.FormValue("name")
			fields.CategoryID = r.FormValue("category_id")
			fields.Description = r.FormValue("description")
			fields.HistoricalBackground = r.FormValue("historical_background")
			fields.DateOrigin = r.FormValue("date_origin")
			fields.LocationFound = r.FormValue("location_found")
			fields.DisplayLocation = r.FormValue("display_location")
			fields.ConditionStatus = r.FormValue("condition_status")
		}

		var headers []*multipart.FileHeader
		if r.MultipartForm != nil {
			headers = r.MultipartForm.File["images"]
		}
		uploads := make([]artifactcatalog.ImageUpload, 0, len(headers))
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return fields, nil, err
			}
			uploads = append(uploads, artifactcatalog.ImageUpload{
				FileName: header.Filename,
				Reader:   file,
			})
		}
		return fields, uploads, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return fields, nil, err
	}
	return fields, nil, nil
}

func parseCategoryID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid category id", artifactcatalog.ErrValidation)
	}
	return &id, nil
}

// CreateArtifact creates a new artifact, optionally attaching images
func (h *ArtifactHandler) CreateArtifact(w http.ResponseWriter, r *http.Request) {
	_, principal, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	fields, uploads, err := parseSaveRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categoryID, err := parseCategoryID(fields.CategoryID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	result, err := h.service.CreateArtifact(r.Context(), artifactcatalog.CreateArtifactRequest{
		Actor:                principal,
		Name:                 fields.Name,
		CategoryID:           categoryID,
		Description:          fields.Description,
		HistoricalBackground: fields.HistoricalBackground,
		DateOrigin:           fields.DateOrigin,
		LocationFound:        fields.LocationFound,
		DisplayLocation:      fields.DisplayLocation,
		ConditionStatus:      fields.ConditionStatus,
		Images:               uploads,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, saveResponse(result))
}

// UpdateArtifact edits an existing artifact, optionally appending images
func (h *ArtifactHandler) UpdateArtifact(w http.ResponseWriter, r *http.Request) {
	_, principal, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid artifact ID", http.StatusBadRequest)
		return
	}

	fields, uploads, err := parseSaveRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categoryID, err := parseCategoryID(fields.CategoryID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	result, err := h.service.UpdateArtifact(r.Context(), artifactcatalog.UpdateArtifactRequest{
		Actor:                principal,
		ArtifactID:           artifactID,
		Name:                 fields.Name,
		CategoryID:           categoryID,
		Description:          fields.Description,
		HistoricalBackground: fields.HistoricalBackground,
		DateOrigin:           fields.DateOrigin,
		LocationFound:        fields.LocationFound,
		DisplayLocation:      fields.DisplayLocation,
		ConditionStatus:      fields.ConditionStatus,
		Images:               uploads,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, saveResponse(result))
}

func saveResponse(result *artifactcatalog.SaveResult) SaveResponse {
	resp := SaveResponse{
		Artifact:       result.Artifact,
		ImagesAttached: result.ImagesAttached,
		QRCodeSet:      result.QRCodeSet,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp
}

// GetArtifact returns one artifact, applying the view policy for the caller's role
func (h *ArtifactHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	role, _, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid artifact ID", http.StatusBadRequest)
		return
	}

	artifact, err := h.service.GetArtifact(r.Context(), artifactID, role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, artifact)
}

// ListArtifacts returns the artifacts visible to the caller's role
func (h *ArtifactHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	role, _, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	artifacts, err := h.service.ListArtifacts(r.Context(), role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, artifacts)
}

// ApproveArtifact transitions a pending artifact to approved
func (h *ArtifactHandler) ApproveArtifact(w http.ResponseWriter, r *http.Request) {
	_, principal, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid artifact ID", http.StatusBadRequest)
		return
	}

	artifact, err := h.service.ApproveArtifact(r.Context(), artifactID, principal)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, artifact)
}

// DeleteArtifact deletes an artifact and its images
func (h *ArtifactHandler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	_, principal, err := h.auth.Resolve(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	artifactID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid artifact ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteArtifact(r.Context(), artifactID, principal); err != nil {
		renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
