package response

import (
	"time"

	"billboard-report/internal/data/entity"
)

type SupportRequestResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func SupportRequestToResponse(req *entity.SupportRequest) SupportRequestResponse {
	return SupportRequestResponse{
		ID:        req.ID.String(),
		UserID:    req.UserID.String(),
		Message:   req.Message,
		CreatedAt: req.CreatedAt,
	}
}
