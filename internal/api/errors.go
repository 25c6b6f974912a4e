package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// ErrResponse is the JSON body for failed requests
type ErrResponse struct {
	Error string `json:"error"`
}

// renderError maps the core error taxonomy to HTTP status codes
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, artifactcatalog.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, artifactcatalog.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, artifactcatalog.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, artifactcatalog.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, artifactcatalog.ErrArtifactNotFound),
		errors.Is(err, artifactcatalog.ErrCategoryNotFound):
		status = http.StatusNotFound
	}

	render.Status(r, status)
	render.JSON(w, r, ErrResponse{Error: err.Error()})
}
