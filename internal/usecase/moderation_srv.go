package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/data/repository"
	"billboard-report/internal/dto/response"
	"billboard-report/pkg/storage"
	"billboard-report/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ModerationService interface {
	ListPending(ctx context.Context) ([]response.ReportResponse, error)
	Approve(ctx context.Context, actor utils.Session, billboardID string) (*response.ReportResponse, error)
	DeleteBillboard(ctx context.Context, actor utils.Session, billboardID string) error
	// MapMarkers rebuilds the full marker set on every call.
	MapMarkers(ctx context.Context, filter string) (*response.MapResponse, error)
}

type moderationService struct {
	repo      *repository.Repository
	store     storage.ObjectStore
	presenter reportPresenter
	mapConfig utils.MapConfig
	log       *zap.Logger
	now       func() time.Time
}

func NewModerationService(
	repo *repository.Repository,
	store storage.ObjectStore,
	presenter reportPresenter,
	mapConfig utils.MapConfig,
	log *zap.Logger,
) ModerationService {
	return &moderationService{
		repo:      repo,
		store:     store,
		presenter: presenter,
		mapConfig: mapConfig,
		log:       log.With(zap.String("service", "moderation")),
		now:       time.Now,
	}
}

func (s *moderationService) ListPending(ctx context.Context) ([]response.ReportResponse, error) {
	pending, err := s.repo.Report.FindByStatus(ctx, entity.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending billboards: %w", err)
	}
	SortNewestFirst(pending)
	return s.presenter.reports(pending)
}

func (s *moderationService) find(ctx context.Context, billboardID string) (*entity.Report, error) {
	id, err := uuid.Parse(billboardID)
	if err != nil {
		return nil, errNotFound("billboard")
	}
	report, err := s.repo.Report.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find billboard: %w", err)
	}
	if report == nil {
		return nil, errNotFound("billboard")
	}
	return report, nil
}

func (s *moderationService) Approve(ctx context.Context, actor utils.Session, billboardID string) (*response.ReportResponse, error) {
	report, err := s.find(ctx, billboardID)
	if err != nil {
		return nil, err
	}
	if report.Status == entity.StatusApproved {
		return nil, fmt.Errorf("billboard already approved: %w", ErrConflict)
	}

	report.Status = entity.StatusApproved
	report.UpdatedAt = s.now()
	if err := s.repo.Report.UpdateStatus(ctx, report.ID, report.Status, report.UpdatedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotFound("billboard")
		}
		return nil, fmt.Errorf("approve billboard: %w", err)
	}

	s.log.Info("Billboard approved",
		zap.String("report_id", report.ID.String()),
		zap.String("by", actor.UserID.String()))

	resp, err := s.presenter.report(report)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *moderationService) DeleteBillboard(ctx context.Context, actor utils.Session, billboardID string) error {
	report, err := s.find(ctx, billboardID)
	if err != nil {
		return err
	}
	return deleteReport(ctx, s.repo.Report, s.store, report, actor, s.log)
}

func (s *moderationService) MapMarkers(ctx context.Context, filter string) (*response.MapResponse, error) {
	reports, err := s.repo.Report.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load map reports: %w", err)
	}
	SortNewestFirst(reports)

	filtered := FilterReports(reports, filter)
	markers := make([]response.MarkerResponse, 0, len(filtered))
	for _, r := range filtered {
		marker, err := s.presenter.marker(r)
		if err != nil {
			return nil, err
		}
		markers = append(markers, marker)
	}

	return &response.MapResponse{
		TileURL: s.mapConfig.TileURL,
		Center:  response.LatLng{Lat: s.mapConfig.CenterLat, Lng: s.mapConfig.CenterLng},
		Zoom:    s.mapConfig.Zoom,
		Markers: markers,
	}, nil
}
