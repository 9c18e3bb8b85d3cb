package repository

import (
	"context"
	"fmt"

	"billboard-report/internal/data/entity"
	"billboard-report/pkg/database"

	"go.uber.org/zap"
)

type SupportRepository interface {
	Create(ctx context.Context, req *entity.SupportRequest) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.SupportRequest, error)
	CountAll(ctx context.Context) (int64, error)
}

type supportRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSupportRepository(db database.PgxIface, log *zap.Logger) SupportRepository {
	return &supportRepository{
		db:  db,
		log: log.With(zap.String("repository", "support")),
	}
}

func (r *supportRepository) Create(ctx context.Context, req *entity.SupportRequest) error {
	query := `INSERT INTO support_requests (id, user_id, message, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, req.ID, req.UserID, req.Message, req.CreatedAt); err != nil {
		r.log.Error("Failed to create support request",
			zap.Error(err),
			zap.String("user_id", req.UserID.String()),
		)
		return fmt.Errorf("create support request: %w", err)
	}

	return nil
}

func (r *supportRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.SupportRequest, error) {
	query := `
		SELECT id, user_id, message, created_at
		FROM support_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get support requests", zap.Error(err))
		return nil, fmt.Errorf("find support requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*entity.SupportRequest, 0)
	for rows.Next() {
		var req entity.SupportRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.Message, &req.CreatedAt); err != nil {
			r.log.Error("Failed to scan support request row", zap.Error(err))
			return nil, fmt.Errorf("scan support request row: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate support request rows: %w", err)
	}

	return requests, nil
}

func (r *supportRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM support_requests`).Scan(&count); err != nil {
		r.log.Error("Database error counting support requests", zap.Error(err))
		return 0, fmt.Errorf("count support requests: %w", err)
	}
	return count, nil
}
