package wire

import (
	"billboard-report/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/api/logout", authHandler.Logout)
		r.Get("/api/session", authHandler.Session)
		r.Get("/api/session/role-events", authHandler.RoleEvents)
	})
}
