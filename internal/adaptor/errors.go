package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"billboard-report/internal/dto/request"
	"billboard-report/internal/usecase"
	"billboard-report/pkg/utils"

	"go.uber.org/zap"
)

// writeServiceError maps usecase error kinds onto the JSON envelope.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields())

	case errors.Is(err, usecase.ErrAuth):
		log.Warn(operation+" failed - unauthenticated", zap.Error(err))
		utils.ResponseUnauthorized(w, publicMessage(err))

	case errors.Is(err, usecase.ErrPermission):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, publicMessage(err))

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, publicMessage(err))

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, publicMessage(err))

	case errors.Is(err, usecase.ErrRateLimited):
		log.Warn(operation+" failed - rate limited", zap.Error(err))
		utils.ResponseTooManyRequests(w, publicMessage(err), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// publicMessage strips the trailing ": <kind>" added when wrapping a sentinel.
func publicMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	return msg
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func requireSession(w http.ResponseWriter, r *http.Request) (utils.Session, bool) {
	session, ok := utils.SessionFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return utils.Session{}, false
	}
	return session, true
}

// listRequest reads filter, page and per_page. A zero per_page lets the service pick its default.
func listRequest(r *http.Request) request.ListReportsRequest {
	query := r.URL.Query()
	return request.ListReportsRequest{
		PaginatedRequest: pageRequest(r),
		Filter:           query.Get("filter"),
	}
}

func pageRequest(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 0),
	}
}
