package response

import "time"

type AnalyticsResponse struct {
	TotalUsers      int64 `json:"total_users"`
	TotalBillboards int64 `json:"total_billboards"`
}

type ActivityReportResponse struct {
	GeneratedAt       time.Time        `json:"generated_at"`
	PendingBillboards []ReportResponse `json:"pending_billboards"`
	Users             []UserResponse   `json:"users"`
}
