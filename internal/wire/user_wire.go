package wire

import (
	"billboard-report/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, supportHandler *adaptor.SupportHandler, g guards) {
	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/api/user/profile", userHandler.GetProfile)
		r.Put("/api/user/profile", userHandler.UpdateProfile)
		r.Put("/api/user/password", userHandler.ChangePassword)

		r.Post("/api/support", supportHandler.Submit)
	})
}
