// internal/app/features/apikeys/routes.go
package apikeys

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the API key management endpoints.
// Typically: r.Mount("/api/apikeys", apikeys.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Sessions.RequireSignedIn)

	r.Post("/", h.HandleCreate)
	r.Get("/", h.HandleList)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
