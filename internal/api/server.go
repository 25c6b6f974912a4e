package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// NewRouter assembles the HTTP surface: the public catalog under /api/catalog
// and the management routes under /api/artifacts, /api/admin. All routes pass
// through the token verifier; authorization itself happens in the core policy
// per request, so an invalid token degrades to anonymous access instead of a
// hard failure.
func NewRouter(service artifactcatalog.Service, auth *Authenticator) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Verifier())

	r.Get("/health", healthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/catalog", NewPublicHandler(service).Routes())
		r.Mount("/artifacts", NewArtifactHandler(service, auth).Routes())
		r.Mount("/admin", NewAdminHandler(service, auth).Routes())
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
