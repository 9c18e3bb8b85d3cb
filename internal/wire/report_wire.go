package wire

import (
	"billboard-report/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReport(r chi.Router, reportHandler *adaptor.ReportHandler, imageHandler *adaptor.ImageHandler, g guards) {
	// image links carry their own signed token
	r.Get("/api/images/*", imageHandler.Serve)

	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.With(g.rateLimit).Post("/api/reports", reportHandler.SubmitReport)
		r.Get("/api/reports/mine", reportHandler.ListMine)

		// owner or admin, checked by the service
		r.Get("/api/reports/{id}", reportHandler.GetReport)
		r.Patch("/api/reports/{id}", reportHandler.UpdateReport)
		r.Delete("/api/reports/{id}", reportHandler.DeleteReport)
	})
}
