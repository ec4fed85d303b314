// internal/app/features/admin/routes.go
package admin

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the back-office endpoints.
// Typically: r.Mount("/api/admin", admin.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/auth", h.HandleLogin)
	r.Get("/auth", h.HandleSession)
	r.Delete("/auth", h.HandleLogout)
	r.Post("/setup", h.HandleSetup)

	r.Group(func(ar chi.Router) {
		ar.Use(h.Tokens.RequireAdmin(h.AdminExists))

		ar.Get("/casas", h.HandleListCasas)
		ar.Post("/casas", h.HandleCreateCasa)
		ar.Get("/casas/{id}", h.HandleGetCasa)
		ar.Put("/casas/{id}", h.HandleUpdateCasa)
		ar.Delete("/casas/{id}", h.HandleDeleteCasa)

		ar.Get("/usuarios", h.HandleListUsers)
		ar.Post("/usuarios", h.HandleCreateUser)
		ar.Get("/usuarios/{id}", h.HandleGetUser)
		ar.Put("/usuarios/{id}", h.HandleUpdateUser)
		ar.Delete("/usuarios/{id}", h.HandleDeleteUser)

		ar.Get("/comidas/count", h.HandleMealCount)
	})

	return r
}
