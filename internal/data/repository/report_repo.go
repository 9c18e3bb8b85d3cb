package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ReportRepository stores billboard reports. List methods return newest first
// and every returned record has been normalized.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error)
	FindAll(ctx context.Context) ([]*entity.Report, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Report, error)
	FindByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error)
	UpdateContent(ctx context.Context, id uuid.UUID, description string, flag entity.Flag, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReportStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountAll(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReportRepository(db database.PgxIface, log *zap.Logger) ReportRepository {
	return &reportRepository{
		db:  db,
		log: log.With(zap.String("repository", "report")),
	}
}

const reportColumns = `id, user_id, title, description, flag, image_keys, latitude, longitude, status, created_at, updated_at`

func scanReport(row pgx.Row) (*entity.Report, error) {
	var report entity.Report
	var flag, status string
	err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.Title,
		&report.Description,
		&flag,
		&report.ImageKeys,
		&report.Latitude,
		&report.Longitude,
		&status,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.Flag = entity.Flag(flag)
	report.Status = entity.ReportStatus(status)
	report.Normalize()
	return &report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *entity.Report) error {
	query := `
		INSERT INTO reports (id, user_id, title, description, flag, image_keys,
		                     latitude, longitude, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		report.ID,
		report.UserID,
		report.Title,
		report.Description,
		report.Flag,
		report.ImageKeys,
		report.Latitude,
		report.Longitude,
		report.Status,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create report",
			zap.Error(err),
			zap.String("user_id", report.UserID.String()),
		)
		return fmt.Errorf("create report: %w", err)
	}

	return nil
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	report, err := scanReport(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find report by ID", zap.Error(err), zap.String("report_id", id.String()))
		return nil, fmt.Errorf("find report %s: %w", id.String(), err)
	}

	return report, nil
}

func (r *reportRepository) FindAll(ctx context.Context) ([]*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC`
	return r.queryReports(ctx, "all", query)
}

func (r *reportRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryReports(ctx, "by_user", query, userID)
}

func (r *reportRepository) FindByStatus(ctx context.Context, status entity.ReportStatus) ([]*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status = $1 ORDER BY created_at DESC`
	return r.queryReports(ctx, "by_status", query, status)
}

func (r *reportRepository) queryReports(ctx context.Context, op, query string, args ...any) ([]*entity.Report, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query reports", zap.Error(err), zap.String("op", op))
		return nil, fmt.Errorf("query reports %s: %w", op, err)
	}
	defer rows.Close()

	reports := make([]*entity.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			r.log.Error("Failed to scan report row", zap.Error(err))
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}

	return reports, nil
}

func (r *reportRepository) UpdateContent(ctx context.Context, id uuid.UUID, description string, flag entity.Flag, updatedAt time.Time) error {
	query := `UPDATE reports SET description = $2, flag = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, description, flag, updatedAt)
	if err != nil {
		r.log.Error("Failed to update report", zap.Error(err), zap.String("report_id", id.String()))
		return fmt.Errorf("update report %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update report %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *reportRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReportStatus, updatedAt time.Time) error {
	query := `UPDATE reports SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, updatedAt)
	if err != nil {
		r.log.Error("Failed to update report status",
			zap.Error(err),
			zap.String("report_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update report status %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update report status %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

// Delete removes the record permanently.
func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reports WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete report", zap.Error(err), zap.String("report_id", id.String()))
		return fmt.Errorf("delete report %s: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete report %s: %w", id.String(), ErrNotFound)
	}

	r.log.Info("Report deleted", zap.String("report_id", id.String()))
	return nil
}

func (r *reportRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports`).Scan(&count); err != nil {
		r.log.Error("Database error counting reports", zap.Error(err))
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return count, nil
}
