package wire

import (
	"billboard-report/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, analyticsHandler *adaptor.AnalyticsHandler, g guards) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(g.auth)
		r.Use(g.admin)

		r.Get("/reports", adminHandler.ListReports)
		r.Get("/map", adminHandler.Map)

		r.Get("/billboards/pending", adminHandler.ListPending)
		r.Post("/billboards/{id}/approve", adminHandler.Approve)
		r.Delete("/billboards/{id}", adminHandler.DeleteBillboard)

		r.Get("/users", adminHandler.ListUsers)
		r.Get("/users/{id}/reports", adminHandler.UserReports)
		r.Patch("/users/{id}/role", adminHandler.UpdateRole)
		r.Delete("/users/{id}", adminHandler.DeleteUser)

		r.Get("/analytics", analyticsHandler.Summary)
		r.Get("/analytics/activity-report", analyticsHandler.ActivityReport)

		r.Get("/support", adminHandler.ListSupport)
	})
}
