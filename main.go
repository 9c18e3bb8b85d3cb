package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"billboard-report/cmd"
	"billboard-report/internal/data/repository"
	"billboard-report/internal/jobs"
	"billboard-report/internal/usecase"
	"billboard-report/internal/wire"
	"billboard-report/pkg/database"
	"billboard-report/pkg/mailer"
	"billboard-report/pkg/middleware"
	"billboard-report/pkg/storage"
	"billboard-report/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("document_store", config.App.DocumentStore),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	if config.App.DocumentStore == utils.DocumentStoreMongo {
		client, mongoDB, err := database.InitMongo(ctx, config.Mongo)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(context.Background())

		repos.UseDocumentStore(mongoDB, logger)
		logger.Info("MongoDB document store enabled", zap.String("database", config.Mongo.Database))
	}

	infra := wire.Infra{Roles: usecase.NewMemoryRoleNotifier()}

	redisClient, err := database.InitRedis(ctx, config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		infra.Roles = usecase.NewRedisRoleNotifier(redisClient, config.Redis.RoleEventPrefix, logger)
		infra.Limiter = middleware.NewRedisLimiter(redisClient, "billboard:submit", config.Redis.SubmitLimit, config.Redis.SubmitWindow)
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	} else {
		logger.Warn("REDIS_ADDR not set; submission rate limiting disabled, role events are local only")
	}

	store, err := storage.NewLocalStore(config.Storage.Root)
	if err != nil {
		logger.Fatal("Failed to init object storage", zap.Error(err))
	}
	defer store.Close()
	infra.Store = store

	if config.Storage.SigningSecret == "" {
		logger.Fatal("STORAGE_SIGNING_SECRET is required")
	}
	infra.Signer = storage.NewURLSigner(config.Storage.SigningSecret, config.App.BaseURL, config.Storage.URLTTL)

	var provider mailer.Provider = mailer.NewLogProvider(logger)
	if config.Mail.ResendAPIKey != "" {
		provider = mailer.NewResendProvider(config.Mail.ResendAPIKey)
	}
	infra.Mailer = mailer.New(provider, config.Mail.From)
	logger.Info("Mailer configured", zap.String("provider", infra.Mailer.ProviderName()))

	app := wire.Wiring(repos, infra, config, logger)

	jobs.StartSessionCleanupJob(ctx, repos.Session, config.Session.CleanupInterval, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
