// internal/app/features/weeklymenu/routes.go
package weeklymenu

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the planner endpoints.
// Typically: r.Mount("/api/weekly-menu", weeklymenu.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Sessions.RequireSignedIn)
	r.Use(h.Sessions.RequireCasa)

	r.Post("/", h.HandleSave)
	r.Get("/", h.HandleList)
	r.Get("/shopping-list", h.HandleShoppingList)
	r.Post("/generate", h.HandleGenerate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Get("/{id}/nutrition", h.HandleNutrition)

	return r
}
