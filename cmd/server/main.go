package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/trainer-link/internal/api"
	"alcyxob/trainer-link/internal/catalog"
	"alcyxob/trainer-link/internal/config"
	"alcyxob/trainer-link/internal/logging"
	"alcyxob/trainer-link/internal/repository/mongo"
	"alcyxob/trainer-link/internal/repository/postgres"
	"alcyxob/trainer-link/internal/service"
	"alcyxob/trainer-link/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Trainer Link API
// @version 1.0
// @description Trainers, students, trainer keys and the exercise catalog.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	ctx := context.Background()
	logger.Info(ctx, "starting trainer-link server", "address", cfg.Server.Address)

	// --- Database Connections ---
	sqlDB, err := postgres.ConnectDB(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to PostgreSQL: %v", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error(ctx, "close postgres", "error", err)
		}
	}()
	logger.Info(ctx, "postgres ready, migrations applied")

	mongoClient, err := mongo.ConnectDB(cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		logger.Info(ctx, "disconnecting mongodb")
		if err := mongo.DisconnectDB(mongoClient); err != nil {
			logger.Error(ctx, "disconnect mongodb", "error", err)
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(ctx, time.Minute)
	appDB, err := mongo.PrepareDatabase(indexCtx, mongoClient, cfg.Mongo.Name)
	cancelIndex()
	if err != nil {
		log.Fatalf("FATAL: Could not prepare MongoDB: %v", err)
	}
	logger.Info(ctx, "mongodb ready", "database", cfg.Mongo.Name)

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := postgres.NewPostgresUserRepository(sqlDB)
	profileRepo := postgres.NewPostgresProfileRepository(sqlDB)
	trainerDirectory := postgres.NewPostgresTrainerDirectory(sqlDB)
	exerciseRepo := mongo.NewMongoCustomExerciseRepository(appDB)

	// --- Initialize Services ---
	catalogClient := catalog.NewClient(cfg.Catalog, nil, logger.With("component", "catalog"))
	keyService := service.NewTrainerKeyService(profileRepo, trainerDirectory, logger.With("component", "trainer_keys"))
	authService := service.NewAuthService(userRepo, profileRepo, keyService, logger.With("component", "auth"), cfg.JWT.Secret, cfg.JWT.Expiration)
	profileService := service.NewProfileService(profileRepo, trainerDirectory, keyService, fileStorage, logger.With("component", "profiles"))
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage, catalogClient, logger.With("component", "exercises"))

	// --- Initialize Gin Engine ---
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:       authService,
		TrainerKey: keyService,
		Profile:    profileService,
		Exercise:   exerciseService,
		Catalog:    catalogClient,
	}, logger.With("component", "api"))

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // catalog pages may span several upstream calls
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()
	logger.Info(ctx, "server listening", "address", cfg.Server.Address)

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error(ctx, "server forced to shutdown", "error", err)
	}

	logger.Info(ctx, "server exiting")
}
