package entity

import (
	"strings"

	"github.com/google/uuid"
)

const MaxReportImages = 4

type ReportStatus string

const (
	StatusPending  ReportStatus = "pending"
	StatusApproved ReportStatus = "approved"
)

// Report is a user-submitted record of one billboard's condition. The admin
// "billboard" views are the same entity filtered by Status.
type Report struct {
	BaseNoDelete
	UserID      uuid.UUID    `db:"user_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Flag        Flag         `db:"flag"`
	ImageKeys   []string     `db:"image_keys"`
	Latitude    float64      `db:"latitude"`
	Longitude   float64      `db:"longitude"`
	Status      ReportStatus `db:"status"`
}

// Normalize fills documented defaults for fields a stored record may lack.
// Repositories call it on every read so consumers never check presence.
func (r *Report) Normalize() {
	if r.ImageKeys == nil {
		r.ImageKeys = []string{}
	}
	if len(r.ImageKeys) > MaxReportImages {
		r.ImageKeys = r.ImageKeys[:MaxReportImages]
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	r.Flag = NormalizeFlag(string(r.Flag))
	r.Title = strings.TrimSpace(r.Title)
}

func (r *Report) OwnedBy(userID uuid.UUID) bool {
	return r != nil && r.UserID == userID
}

func (r *Report) FirstImageKey() string {
	if r == nil || len(r.ImageKeys) == 0 {
		return ""
	}
	return r.ImageKeys[0]
}
