package request

import (
	"io"

	"billboard-report/internal/data/entity"
	"billboard-report/pkg/utils"

	"github.com/go-playground/validator/v10"
)

func init() {
	utils.RegisterValidation("flag", func(fl validator.FieldLevel) bool {
		return entity.NormalizeFlag(fl.Field().String()).Valid()
	})
}

// ImageUpload is one file of a submission. Content is read once by the service.
type ImageUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// SubmitReportRequest is the multipart report form. Coordinates are pointers
// so a missing value is distinguishable from 0,0.
type SubmitReportRequest struct {
	Title       string
	Description string
	Flag        string
	Latitude    *float64
	Longitude   *float64
	Images      []ImageUpload
}

type UpdateReportRequest struct {
	Description string `json:"description" validate:"required"`
	Flag        string `json:"flag" validate:"required,flag"`
}

type ListReportsRequest struct {
	PaginatedRequest
	Filter string `json:"filter"`
}
