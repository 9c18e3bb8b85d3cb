package usecase

import (
	"context"
	"fmt"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/data/repository"
	"billboard-report/internal/dto/response"

	"go.uber.org/zap"
)

const userBatchSize = 200

type AnalyticsService interface {
	Summary(ctx context.Context) (*response.AnalyticsResponse, error)
	// ActivityReport returns pending billboards and all users without further aggregation.
	ActivityReport(ctx context.Context) (*response.ActivityReportResponse, error)
	ActivityReportPDF(ctx context.Context) ([]byte, error)
}

type analyticsService struct {
	repo      *repository.Repository
	presenter reportPresenter
	log       *zap.Logger
	now       func() time.Time
}

func NewAnalyticsService(repo *repository.Repository, presenter reportPresenter, log *zap.Logger) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		presenter: presenter,
		log:       log.With(zap.String("service", "analytics")),
		now:       time.Now,
	}
}

func (s *analyticsService) Summary(ctx context.Context) (*response.AnalyticsResponse, error) {
	users, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	billboards, err := s.repo.Report.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count billboards: %w", err)
	}

	return &response.AnalyticsResponse{
		TotalUsers:      users,
		TotalBillboards: billboards,
	}, nil
}

func (s *analyticsService) ActivityReport(ctx context.Context) (*response.ActivityReportResponse, error) {
	pending, err := s.repo.Report.FindByStatus(ctx, entity.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("load pending billboards: %w", err)
	}
	SortNewestFirst(pending)

	pendingResp, err := s.presenter.reports(pending)
	if err != nil {
		return nil, err
	}

	users, err := s.allUsers(ctx)
	if err != nil {
		return nil, err
	}

	userResp := make([]response.UserResponse, len(users))
	for i, u := range users {
		userResp[i] = response.UserToResponse(u)
	}

	s.log.Info("Activity report generated",
		zap.Int("pending_billboards", len(pendingResp)),
		zap.Int("users", len(userResp)))

	return &response.ActivityReportResponse{
		GeneratedAt:       s.now(),
		PendingBillboards: pendingResp,
		Users:             userResp,
	}, nil
}

func (s *analyticsService) ActivityReportPDF(ctx context.Context) ([]byte, error) {
	report, err := s.ActivityReport(ctx)
	if err != nil {
		return nil, err
	}
	return buildActivityPDF(report)
}

func (s *analyticsService) allUsers(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	for offset := 0; ; offset += userBatchSize {
		batch, err := s.repo.User.FindAll(ctx, userBatchSize, offset)
		if err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
		users = append(users, batch...)
		if len(batch) < userBatchSize {
			return users, nil
		}
	}
}
