// internal/app/features/discover/routes.go
package discover

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the discovery endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Sessions.RequireSignedIn)
	r.Use(h.Sessions.RequireCasa)

	r.Post("/", h.HandleDiscover)

	return r
}
