// internal/app/features/casas/routes.go
package casas

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the household endpoints.
// Typically: r.Mount("/api/casa", casas.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(h.Sessions.RequireSignedIn)

	r.Post("/", h.HandleCreate)

	r.Group(func(cr chi.Router) {
		cr.Use(h.Sessions.RequireCasa)
		cr.Get("/", h.HandleGet)
		cr.Put("/", h.HandleRename)
		cr.Delete("/", h.HandleDelete)
		cr.Get("/usuarios", h.HandleListMembers)
		cr.Post("/invitar", h.HandleInvite)
		cr.Put("/propietario", h.HandleTransfer)
	})

	return r
}
