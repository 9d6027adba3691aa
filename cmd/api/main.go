package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard-backend/config"
	_ "go-jobboard-backend/docs" // Important for Swagger
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/email"
	"go-jobboard-backend/pkg/embedding"
	"go-jobboard-backend/pkg/enhance"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/storage"
)

// @title           Job Board API
// @version         1.0
// @description     Job board backend with applications, CV parsing and candidate matching.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting job board backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional, revocation and rate limiting degrade without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, falling back to database-backed checks", "error", err)
	}

	// 5. Setup Blob Storage
	ctx := context.Background()
	blobStore, err := storage.NewBlobStore(ctx, storage.ClientConfig{
		Provider:        storage.Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		WasabiEndpoint:  cfg.WasabiEndpoint,
	})
	if err != nil {
		logger.Log.Error("Failed to configure blob storage", "error", err)
		os.Exit(1)
	}
	if cfg.S3Bucket == "" {
		logger.Log.Warn("S3_BUCKET not configured - CV and avatar uploads will fail")
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)
	resetRepo := postgres.NewResetTokenRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	cvParseRepo := postgres.NewCvParseRepository(dbPool)
	embeddingRepo := postgres.NewEmbeddingRepository(dbPool)
	enhancementRepo := postgres.NewEnhancementRepository(dbPool)
	uow := postgres.NewUnitOfWork(dbPool)

	// 7. Setup Auth and Email
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	revoked := auth.NewRevocationList(redis.Client())
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - password reset mail will be skipped")
	}

	// 8. Setup UseCases
	authUC := usecase.NewAuthUsecase(
		userRepo, sessionRepo, resetRepo,
		tokens, revoked, emailService,
		cfg.FrontendURL, time.Duration(cfg.ResetTokenMinutes)*time.Minute,
	)
	userAdminUC := usecase.NewUserAdminUsecase(userRepo, uow, revoked)
	jobUC := usecase.NewJobUsecase(jobRepo, uow)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, uow)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo, uow, blobStore)
	cvParseUC := usecase.NewCvParseUsecase(cvParseRepo, uow, blobStore)
	matchingUC := usecase.NewMatchingUsecase(
		embeddingRepo, enhancementRepo, jobRepo, profileRepo, uow,
		embedding.NewHashEmbedder(256), enhance.NewRuleEnhancer(),
	)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		UserAdminUC:    userAdminUC,
		JobUC:          jobUC,
		ApplicationUC:  applicationUC,
		NotificationUC: notificationUC,
		ProfileUC:      profileUC,
		CvParseUC:      cvParseUC,
		MatchingUC:     matchingUC,
		Tokens:         tokens,
		Revoked:        revoked,
		Config:         cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
