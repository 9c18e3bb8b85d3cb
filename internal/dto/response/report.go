package response

import (
	"fmt"
	"strconv"
	"time"

	"billboard-report/internal/data/entity"
)

type ReportResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Flag        entity.Flag         `json:"flag"`
	Color       string              `json:"color"`
	Images      []string            `json:"images"`
	Latitude    float64             `json:"latitude"`
	Longitude   float64             `json:"longitude"`
	MapsURL     string              `json:"maps_url"`
	Status      entity.ReportStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// GoogleMapsURL links to a pin at the given coordinates.
func GoogleMapsURL(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))
}

// ReportToResponse expects imageURLs in the same order as report.ImageKeys.
func ReportToResponse(report *entity.Report, imageURLs []string) ReportResponse {
	if imageURLs == nil {
		imageURLs = []string{}
	}
	return ReportResponse{
		ID:          report.ID.String(),
		UserID:      report.UserID.String(),
		Title:       report.Title,
		Description: report.Description,
		Flag:        report.Flag,
		Color:       report.Flag.Color(),
		Images:      imageURLs,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		MapsURL:     GoogleMapsURL(report.Latitude, report.Longitude),
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}
}
