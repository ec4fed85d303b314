// internal/app/features/meals/routes.go
package meals

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the meal catalog endpoints.
// Typically: r.Mount("/api/meals", meals.Routes(handler)) plus a
// top-level POST /api/nutrition to HandleEstimate.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Sessions.RequireSignedIn)
	r.Use(h.Sessions.RequireCasa)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/count", h.HandleCount)
	r.Post("/calculate-nutrition", h.HandleRecompute)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
