package usecase

import (
	"bytes"
	"fmt"

	"billboard-report/internal/dto/response"

	"github.com/go-pdf/fpdf"
)

func buildActivityPDF(report *response.ActivityReportResponse) ([]byte, error) {
	return renderActivityPDF(report, true)
}

func renderActivityPDF(report *response.ActivityReportResponse, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 16)
	pdf.Cell(0, 10, "Billboard activity report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", report.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Pending billboards: %d", len(report.PendingBillboards)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Users: %d", len(report.Users)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Pending billboards")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	for _, b := range report.PendingBillboards {
		pdf.CellFormat(60, 6, tr(truncate(b.Title, 40)), "", 0, "", false, 0, "")
		pdf.CellFormat(20, 6, string(b.Flag), "", 0, "", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.5f, %.5f", b.Latitude, b.Longitude), "", 0, "", false, 0, "")
		pdf.CellFormat(0, 6, b.CreatedAt.UTC().Format("2006-01-02"), "", 1, "", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Users")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	for _, u := range report.Users {
		pdf.CellFormat(70, 6, tr(truncate(u.Email, 45)), "", 0, "", false, 0, "")
		pdf.CellFormat(50, 6, tr(truncate(u.Name, 30)), "", 0, "", false, 0, "")
		pdf.CellFormat(0, 6, string(u.Role), "", 1, "", false, 0, "")
	}

	buffer := bytes.NewBuffer(nil)
	if err := pdf.Output(buffer); err != nil {
		return nil, fmt.Errorf("render activity pdf: %w", err)
	}
	return buffer.Bytes(), nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
