package adaptor

import (
	"fmt"
	"net/http"
	"time"

	"billboard-report/internal/usecase"
	"billboard-report/pkg/utils"

	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	service usecase.AnalyticsService
	log     *zap.Logger
}

func NewAnalyticsHandler(service usecase.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log.With(zap.String("handler", "analytics")),
	}
}

// Summary handles GET /api/admin/analytics
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get analytics")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// ActivityReport handles GET /api/admin/analytics/activity-report, with ?format=pdf for a download
func (h *AnalyticsHandler) ActivityReport(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "pdf" {
		data, err := h.service.ActivityReportPDF(r.Context())
		if err != nil {
			writeServiceError(w, h.log, err, "render activity report")
			return
		}

		filename := fmt.Sprintf("activity-report-%s.pdf", time.Now().UTC().Format("20060102"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			h.log.Warn("Failed to write activity report", zap.Error(err))
		}
		return
	}

	report, err := h.service.ActivityReport(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get activity report")
		return
	}

	utils.ResponseSuccess(w, "success", report)
}
