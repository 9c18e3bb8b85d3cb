package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/data/repository"
	"billboard-report/internal/dto/request"
	"billboard-report/internal/dto/response"
	"billboard-report/pkg/storage"
	"billboard-report/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReportService interface {
	SubmitReport(ctx context.Context, userID uuid.UUID, req *request.SubmitReportRequest) (*response.ReportResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID, req request.ListReportsRequest) (*response.PaginatedResponse[response.ReportResponse], error)

	// Admin views
	ListAll(ctx context.Context, req request.ListReportsRequest) (*response.PaginatedResponse[response.ReportResponse], error)
	ListForUser(ctx context.Context, userID string, req request.ListReportsRequest) (*response.PaginatedResponse[response.ReportResponse], error)

	// Owner or admin
	GetReport(ctx context.Context, actor utils.Session, reportID string) (*response.ReportResponse, error)
	UpdateReport(ctx context.Context, actor utils.Session, reportID string, req *request.UpdateReportRequest) (*response.ReportResponse, error)
	DeleteReport(ctx context.Context, actor utils.Session, reportID string) error
}

type reportService struct {
	repo          *repository.Repository
	store         storage.ObjectStore
	presenter     reportPresenter
	maxImageBytes int64
	log           *zap.Logger
	now           func() time.Time
}

func NewReportService(
	repo *repository.Repository,
	store storage.ObjectStore,
	presenter reportPresenter,
	config *utils.Config,
	log *zap.Logger,
) ReportService {
	maxBytes := config.Storage.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &reportService{
		repo:          repo,
		store:         store,
		presenter:     presenter,
		maxImageBytes: maxBytes,
		log:           log.With(zap.String("service", "report")),
		now:           time.Now,
	}
}

// SubmitReport uploads every image then writes one pending report. Images
// already uploaded when a later step fails are left in place and logged.
func (s *reportService) SubmitReport(ctx context.Context, userID uuid.UUID, req *request.SubmitReportRequest) (*response.ReportResponse, error) {
	state, problems := EvaluateSubmission(req)
	if state != StateReady {
		s.log.Debug("Submission not ready", zap.String("state", string(state)), zap.Int("problems", len(problems)))
		return nil, newValidationError(problems...)
	}

	// read and sniff everything before the first upload
	payloads := make([][]byte, len(req.Images))
	for i, img := range req.Images {
		data, mime, err := storage.ReadImage(img.Content, s.maxImageBytes)
		switch {
		case errors.Is(err, storage.ErrImageTooLarge):
			return nil, newValidationError(FieldProblem{"images", fmt.Sprintf("%s exceeds %d MB", displayName(img, i), s.maxImageBytes>>20)})
		case errors.Is(err, storage.ErrNotAnImage):
			return nil, newValidationError(FieldProblem{"images", fmt.Sprintf("%s is not an image (%s)", displayName(img, i), mime)})
		case err != nil:
			return nil, fmt.Errorf("read upload: %w", err)
		}
		payloads[i] = data
	}

	state, _ = state.Advance(StateSubmitting)
	now := s.now()

	keys := make([]string, 0, len(payloads))
	for i, data := range payloads {
		key, err := storage.NewObjectKey(now, i, len(payloads))
		if err != nil {
			return nil, s.failSubmission(state, userID, keys, err)
		}
		if err := s.store.Put(ctx, key, bytes.NewReader(data)); err != nil {
			return nil, s.failSubmission(state, userID, keys, fmt.Errorf("upload image: %w", err))
		}
		keys = append(keys, key)
	}

	report := &entity.Report{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Flag:        entity.NormalizeFlag(req.Flag),
		ImageKeys:   keys,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Status:      entity.StatusPending,
	}

	if err := s.repo.Report.Create(ctx, report); err != nil {
		return nil, s.failSubmission(state, userID, keys, fmt.Errorf("save report: %w", err))
	}

	state, _ = state.Advance(StateSubmitted)
	s.log.Info("Report submitted",
		zap.String("report_id", report.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("flag", string(report.Flag)),
		zap.Int("images", len(keys)),
		zap.String("state", string(state)),
	)

	resp, err := s.presenter.report(report)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *reportService) failSubmission(state SubmissionState, userID uuid.UUID, orphaned []string, err error) error {
	state, _ = state.Advance(StateFailed)
	s.log.Error("Report submission failed",
		zap.Error(err),
		zap.String("user_id", userID.String()),
		zap.Strings("orphaned_keys", orphaned),
		zap.String("state", string(state)),
	)
	return fmt.Errorf("submit report: %w", err)
}

func displayName(img request.ImageUpload, index int) string {
	if img.Filename != "" {
		return img.Filename
	}
	return fmt.Sprintf("image %d", index+1)
}

func (s *reportService) ListMine(ctx context.Context, userID uuid.UUID, req request.ListReportsRequest) (*response.PaginatedResponse[response.ReportResponse], error) {
	reports, err := s.repo.Report.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports of user: %w", err)
	}
	return s.page(reports, req, userReportsPerPage)
}

func (s *reportService) ListAll(ctx context.Context, req request.ListReportsRequest) (*response.PaginatedResponse[response.ReportResponse], error) {
	reports, err := s.repo.Report.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return s.page(reports, req, adminReportsPerPage)
}

func (s *reportService) ListForUser(ctx context.Context, userID string, req request.ListReportsRequest) (*response.PaginatedResponse[response.ReportResponse], error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, errNotFound("user")
	}
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, errNotFound("user")
	}

	reports, err := s.repo.Report.FindByUserID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reports of user: %w", err)
	}
	return s.page(reports, req, adminReportsPerPage)
}

func (s *reportService) page(reports []*entity.Report, req request.ListReportsRequest, defaultPerPage int) (*response.PaginatedResponse[response.ReportResponse], error) {
	paging := req.PaginatedRequest.Normalized(defaultPerPage)

	SortNewestFirst(reports)
	filtered := FilterReports(reports, req.Filter)
	items, err := s.presenter.reports(Paginate(filtered, paging.Page, paging.PerPage))
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(items, paging.Page, paging.PerPage, int64(len(filtered))), nil
}

// loadForActor treats other users' reports as missing unless actor is an admin.
func (s *reportService) loadForActor(ctx context.Context, actor utils.Session, reportID string) (*entity.Report, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, errNotFound("report")
	}

	report, err := s.repo.Report.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find report: %w", err)
	}
	if report == nil || (!actor.IsAdmin() && !report.OwnedBy(actor.UserID)) {
		return nil, errNotFound("report")
	}
	return report, nil
}

func (s *reportService) GetReport(ctx context.Context, actor utils.Session, reportID string) (*response.ReportResponse, error) {
	report, err := s.loadForActor(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}

	resp, err := s.presenter.report(report)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *reportService) UpdateReport(ctx context.Context, actor utils.Session, reportID string, req *request.UpdateReportRequest) (*response.ReportResponse, error) {
	req.Description = strings.TrimSpace(req.Description)
	req.Flag = string(entity.NormalizeFlag(req.Flag))
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFromMap(errs)
	}

	report, err := s.loadForActor(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}

	report.Description = req.Description
	report.Flag = entity.Flag(req.Flag)
	report.UpdatedAt = s.now()

	if err := s.repo.Report.UpdateContent(ctx, report.ID, report.Description, report.Flag, report.UpdatedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errNotFound("report")
		}
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.log.Info("Report updated",
		zap.String("report_id", report.ID.String()),
		zap.String("by", actor.UserID.String()),
		zap.String("flag", string(report.Flag)))

	resp, err := s.presenter.report(report)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *reportService) DeleteReport(ctx context.Context, actor utils.Session, reportID string) error {
	report, err := s.loadForActor(ctx, actor, reportID)
	if err != nil {
		return err
	}
	return deleteReport(ctx, s.repo.Report, s.store, report, actor, s.log)
}

// deleteReport removes the record, then its images on a best-effort basis.
func deleteReport(ctx context.Context, reports repository.ReportRepository, store storage.ObjectStore, report *entity.Report, actor utils.Session, log *zap.Logger) error {
	if err := reports.Delete(ctx, report.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errNotFound("report")
		}
		return fmt.Errorf("delete report: %w", err)
	}

	for _, key := range report.ImageKeys {
		if err := store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn("Failed to delete report image", zap.Error(err), zap.String("key", key))
		}
	}

	log.Info("Report deleted",
		zap.String("report_id", report.ID.String()),
		zap.String("by", actor.UserID.String()))
	return nil
}
