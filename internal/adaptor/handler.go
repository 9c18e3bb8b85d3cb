package adaptor

import (
	"billboard-report/internal/usecase"
	"billboard-report/pkg/storage"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Report    *ReportHandler
	Admin     *AdminHandler
	Analytics *AnalyticsHandler
	Support   *SupportHandler
	Image     *ImageHandler
}

func NewHandler(service *usecase.Service, store storage.ObjectStore, signer *storage.URLSigner, maxImageBytes int64, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		User:      NewUserHandler(service.User, log),
		Report:    NewReportHandler(service.Report, maxImageBytes, log),
		Admin:     NewAdminHandler(service.Report, service.Moderation, service.User, service.Support, log),
		Analytics: NewAnalyticsHandler(service.Analytics, log),
		Support:   NewSupportHandler(service.Support, log),
		Image:     NewImageHandler(store, signer, log),
	}
}
