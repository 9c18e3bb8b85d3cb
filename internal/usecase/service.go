package usecase

import (
	"billboard-report/internal/data/repository"
	"billboard-report/pkg/mailer"
	"billboard-report/pkg/storage"
	"billboard-report/pkg/utils"

	"go.uber.org/zap"
)

// ImageSigner turns an object key into a time-limited download URL.
type ImageSigner interface {
	URL(key string) (string, error)
}

// Dependencies are the non-repository collaborators shared by services.
type Dependencies struct {
	Store  storage.ObjectStore
	Signer ImageSigner
	Mailer *mailer.Mailer
	Roles  RoleNotifier
}

type Service struct {
	Auth       AuthService
	User       UserService
	Report     ReportService
	Moderation ModerationService
	Analytics  AnalyticsService
	Support    SupportService
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	if deps.Roles == nil {
		deps.Roles = NewMemoryRoleNotifier()
	}
	presenter := reportPresenter{signer: deps.Signer}

	return &Service{
		Auth:       NewAuthService(repo, deps.Roles, config, log),
		User:       NewUserService(repo, deps.Roles, log),
		Report:     NewReportService(repo, deps.Store, presenter, config, log),
		Moderation: NewModerationService(repo, deps.Store, presenter, config.Map, log),
		Analytics:  NewAnalyticsService(repo, presenter, log),
		Support:    NewSupportService(repo.Support, deps.Mailer, config.Mail, log),
	}
}
