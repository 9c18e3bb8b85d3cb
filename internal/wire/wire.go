package wire

import (
	"errors"
	"net/http"

	"billboard-report/internal/adaptor"
	"billboard-report/internal/data/repository"
	"billboard-report/internal/usecase"
	"billboard-report/pkg/mailer"
	"billboard-report/pkg/middleware"
	"billboard-report/pkg/storage"
	"billboard-report/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Infra are the clients built in main from configuration.
type Infra struct {
	Store   storage.ObjectStore
	Signer  *storage.URLSigner
	Mailer  *mailer.Mailer
	Roles   usecase.RoleNotifier
	Limiter middleware.Limiter
}

// guards are the per-route middlewares shared by the domain wire files.
type guards struct {
	auth      func(http.Handler) http.Handler
	admin     func(http.Handler) http.Handler
	rateLimit func(http.Handler) http.Handler
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, infra Infra, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, usecase.Dependencies{
		Store:  infra.Store,
		Signer: infra.Signer,
		Mailer: infra.Mailer,
		Roles:  infra.Roles,
	}, config, logger)
	handler := adaptor.NewHandler(service, infra.Store, infra.Signer, config.Storage.MaxImageBytes, logger)

	g := guards{
		auth: middleware.AuthSession(service.Auth, func(err error) bool {
			return errors.Is(err, usecase.ErrAuth)
		}, logger),
		admin:     middleware.Admin(logger),
		rateLimit: middleware.SubmissionRateLimit(infra.Limiter, logger),
	}

	return &App{
		Router:  setupRouter(handler, g, config, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, g guards, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowOrigins))

	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, handler.Support, g)
	wireReport(r, handler.Report, handler.Image, g)
	wireAdmin(r, handler.Admin, handler.Analytics, g)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
