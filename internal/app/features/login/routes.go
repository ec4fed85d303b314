// internal/app/features/login/routes.go
package login

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the account auth endpoints.
// Typically: r.Mount("/auth", login.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Sessions.RequireSignedIn)
		pr.Get("/session", h.HandleSession)
		pr.Post("/associate", h.HandleAssociate)
	})

	return r
}
