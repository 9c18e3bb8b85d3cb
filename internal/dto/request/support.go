package request

type CreateSupportRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
