package adaptor

import (
	"net/http"

	"billboard-report/internal/dto/request"
	"billboard-report/internal/dto/response"
	"billboard-report/internal/usecase"
	"billboard-report/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves the moderation dashboard, map view and user directory.
type AdminHandler struct {
	reports    usecase.ReportService
	moderation usecase.ModerationService
	users      usecase.UserService
	support    usecase.SupportService
	log        *zap.Logger
}

func NewAdminHandler(
	reports usecase.ReportService,
	moderation usecase.ModerationService,
	users usecase.UserService,
	support usecase.SupportService,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		reports:    reports,
		moderation: moderation,
		users:      users,
		support:    support,
		log:        log.With(zap.String("handler", "admin")),
	}
}

// ListReports handles GET /api/admin/reports
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListAll(r.Context(), listRequest(r))
	if err != nil {
		writeServiceError(w, h.log, err, "list reports")
		return
	}

	utils.ResponseSuccess(w, "success", reports)
}

// Map handles GET /api/admin/map, with ?format=geojson for a FeatureCollection
func (h *AdminHandler) Map(w http.ResponseWriter, r *http.Request) {
	mapView, err := h.moderation.MapMarkers(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeServiceError(w, h.log, err, "build map")
		return
	}

	if r.URL.Query().Get("format") == "geojson" {
		utils.ResponseSuccess(w, "success", response.MarkersToGeoJSON(mapView.Markers))
		return
	}

	utils.ResponseSuccess(w, "success", mapView)
}

// ListPending handles GET /api/admin/billboards/pending
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.moderation.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list pending billboards")
		return
	}

	utils.ResponseSuccess(w, "success", pending)
}

// Approve handles POST /api/admin/billboards/{id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	billboard, err := h.moderation.Approve(r.Context(), session, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "approve billboard")
		return
	}

	utils.ResponseSuccess(w, "Billboard approved", billboard)
}

// DeleteBillboard handles DELETE /api/admin/billboards/{id}
func (h *AdminHandler) DeleteBillboard(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.moderation.DeleteBillboard(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete billboard")
		return
	}

	utils.ResponseSuccess(w, "Billboard deleted", nil)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context(), pageRequest(r))
	if err != nil {
		writeServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// UserReports handles GET /api/admin/users/{id}/reports
func (h *AdminHandler) UserReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListForUser(r.Context(), chi.URLParam(r, "id"), listRequest(r))
	if err != nil {
		writeServiceError(w, h.log, err, "list user reports")
		return
	}

	utils.ResponseSuccess(w, "success", reports)
}

// UpdateRole handles PATCH /api/admin/users/{id}/role
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req request.UpdateRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.UpdateRole(r.Context(), session, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update role")
		return
	}

	utils.ResponseSuccess(w, "Role updated", user)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.users.DeleteUser(r.Context(), session, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.log, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, "User deleted", nil)
}

// ListSupport handles GET /api/admin/support
func (h *AdminHandler) ListSupport(w http.ResponseWriter, r *http.Request) {
	requests, err := h.support.List(r.Context(), pageRequest(r))
	if err != nil {
		writeServiceError(w, h.log, err, "list support requests")
		return
	}

	utils.ResponseSuccess(w, "success", requests)
}
