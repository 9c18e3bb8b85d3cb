package adaptor

import (
	"net/http"

	"billboard-report/internal/dto/request"
	"billboard-report/internal/usecase"
	"billboard-report/pkg/utils"

	"go.uber.org/zap"
)

type SupportHandler struct {
	service usecase.SupportService
	log     *zap.Logger
}

func NewSupportHandler(service usecase.SupportService, log *zap.Logger) *SupportHandler {
	return &SupportHandler{
		service: service,
		log:     log.With(zap.String("handler", "support")),
	}
}

// Submit handles POST /api/support
func (h *SupportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req request.CreateSupportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := h.service.Submit(r.Context(), session.UserID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "submit support request")
		return
	}

	utils.ResponseCreated(w, "Support request received", created)
}
