// internal/app/features/publicapi/routes.go
package publicapi

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the key-authenticated export feed.
// Typically: r.Mount("/api/public", publicapi.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Limiter.Middleware(HeaderKey))
	r.Use(h.RequireAPIKey)

	r.Get("/meals", h.HandleExportMeals)

	return r
}
