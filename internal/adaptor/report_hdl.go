package adaptor

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/dto/request"
	"billboard-report/internal/usecase"
	"billboard-report/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const multipartMemory = 32 << 20

type ReportHandler struct {
	service       usecase.ReportService
	maxImageBytes int64
	log           *zap.Logger
}

func NewReportHandler(service usecase.ReportService, maxImageBytes int64, log *zap.Logger) *ReportHandler {
	if maxImageBytes <= 0 {
		maxImageBytes = 10 << 20
	}
	return &ReportHandler{
		service:       service,
		maxImageBytes: maxImageBytes,
		log:           log.With(zap.String("handler", "report")),
	}
}

// SubmitReport handles POST /api/reports (multipart/form-data)
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	// room for the maximum number of images plus form fields
	r.Body = http.MaxBytesReader(w, r.Body, int64(entity.MaxReportImages+1)*h.maxImageBytes+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseBadRequest(w, "Upload too large", map[string]string{"images": "Upload exceeds the size limit"})
			return
		}
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, files, err := parseSubmitForm(r.MultipartForm)
	defer closeAll(files)
	if err != nil {
		h.log.Warn("Failed to open uploaded file", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid upload", nil)
		return
	}

	report, err := h.service.SubmitReport(r.Context(), session.UserID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "submit report")
		return
	}

	utils.ResponseCreated(w, "Report submitted", report)
}

func parseSubmitForm(form *multipart.Form) (*request.SubmitReportRequest, []multipart.File, error) {
	req := &request.SubmitReportRequest{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Flag:        formValue(form, "flag"),
		Latitude:    formFloat(form, "latitude"),
		Longitude:   formFloat(form, "longitude"),
	}

	var files []multipart.File
	for _, header := range form.File["images"] {
		f, err := header.Open()
		if err != nil {
			return nil, files, err
		}
		files = append(files, f)
		req.Images = append(req.Images, request.ImageUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  f,
		})
	}
	return req, files, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// formFloat returns nil for a missing or unparsable value.
func formFloat(form *multipart.Form, key string) *float64 {
	raw := strings.TrimSpace(formValue(form, key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

// ListMine handles GET /api/reports/mine
func (h *ReportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	reports, err := h.service.ListMine(r.Context(), session.UserID, listRequest(r))
	if err != nil {
		writeServiceError(w, h.log, err, "list my reports")
		return
	}

	utils.ResponseSuccess(w, "success", reports)
}

// GetReport handles GET /api/reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetReport(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get report")
		return
	}

	utils.ResponseSuccess(w, "success", report)
}

// UpdateReport handles PATCH /api/reports/{id}
func (h *ReportHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req request.UpdateReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.service.UpdateReport(r.Context(), session, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update report")
		return
	}

	utils.ResponseSuccess(w, "Report updated", report)
}

// DeleteReport handles DELETE /api/reports/{id}
func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReport(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete report")
		return
	}

	utils.ResponseSuccess(w, "Report deleted", nil)
}
