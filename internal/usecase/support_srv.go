package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"billboard-report/internal/data/entity"
	"billboard-report/internal/data/repository"
	"billboard-report/internal/dto/request"
	"billboard-report/internal/dto/response"
	"billboard-report/pkg/mailer"
	"billboard-report/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const supportPerPage = 20

type SupportService interface {
	Submit(ctx context.Context, userID uuid.UUID, req *request.CreateSupportRequest) (*response.SupportRequestResponse, error)
	List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.SupportRequestResponse], error)
}

type supportService struct {
	repo   repository.SupportRepository
	mailer *mailer.Mailer
	inbox  string
	log    *zap.Logger
	now    func() time.Time
}

func NewSupportService(repo repository.SupportRepository, m *mailer.Mailer, config utils.MailConfig, log *zap.Logger) SupportService {
	return &supportService{
		repo:   repo,
		mailer: m,
		inbox:  config.SupportInbox,
		log:    log.With(zap.String("service", "support")),
		now:    time.Now,
	}
}

// Submit stores the request first; the notification email is best effort.
func (s *supportService) Submit(ctx context.Context, userID uuid.UUID, req *request.CreateSupportRequest) (*response.SupportRequestResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationFromMap(errs)
	}

	support := &entity.SupportRequest{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.now(),
		},
		UserID:  userID,
		Message: req.Message,
	}

	if err := s.repo.Create(ctx, support); err != nil {
		return nil, fmt.Errorf("save support request: %w", err)
	}

	s.notify(ctx, support)

	resp := response.SupportRequestToResponse(support)
	return &resp, nil
}

func (s *supportService) notify(ctx context.Context, support *entity.SupportRequest) {
	if s.mailer == nil || s.inbox == "" {
		return
	}

	msg := mailer.Message{
		To:      []string{s.inbox},
		Subject: fmt.Sprintf("Support request from %s", support.UserID.String()),
		Text:    support.Message,
		HTML:    "<p>" + strings.ReplaceAll(html.EscapeString(support.Message), "\n", "<br>") + "</p>",
	}

	result, err := s.mailer.Send(ctx, msg)
	if err != nil {
		s.log.Error("Failed to send support notification",
			zap.Error(err),
			zap.String("support_id", support.ID.String()))
		return
	}

	s.log.Info("Support notification sent",
		zap.String("support_id", support.ID.String()),
		zap.String("provider", s.mailer.ProviderName()),
		zap.String("message_id", result.ProviderMessageID))
}

func (s *supportService) List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.SupportRequestResponse], error) {
	req = req.Normalized(supportPerPage)

	items, err := s.repo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list support requests: %w", err)
	}
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count support requests: %w", err)
	}

	out := make([]response.SupportRequestResponse, len(items))
	for i, item := range items {
		out[i] = response.SupportRequestToResponse(item)
	}
	return response.NewPaginatedResponse(out, req.Page, req.PerPage, total), nil
}
