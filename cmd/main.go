package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lodestone-app/lodestone-backend/internal/data/db"
	"github.com/lodestone-app/lodestone-backend/internal/data/repos"
	appHTTP "github.com/lodestone-app/lodestone-backend/internal/http"
	httpH "github.com/lodestone-app/lodestone-backend/internal/http/handlers"
	"github.com/lodestone-app/lodestone-backend/internal/observability"
	"github.com/lodestone-app/lodestone-backend/internal/platform/logger"
	"github.com/lodestone-app/lodestone-backend/internal/services"
	"github.com/lodestone-app/lodestone-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownTracing := observability.InitTracing(ctx, log, observability.TracingConfig{
		ServiceName: "lodestone-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
	})
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()
	if err := db.AutoMigrateAll(thePG); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	if err := db.EnsureIndexes(thePG); err != nil {
		log.Fatal("Postgres index creation failed", "error", err)
	}

	// Repos
	log.Info("Setting up repos...")
	measureRepo := repos.NewMeasureRepo(thePG, log)
	valueRepo := repos.NewValueRepo(thePG, log)
	termRepo := repos.NewTermRepo(thePG, log)
	expectationRepo := repos.NewExpectationRepo(thePG, log)
	goalRepo := repos.NewGoalRepo(thePG, log)
	actionRepo := repos.NewActionRepo(thePG, log)
	expectationMeasureRepo := repos.NewExpectationMeasureRepo(thePG, log)
	valueAlignmentRepo := repos.NewValueAlignmentRepo(thePG, log)
	termAssignmentRepo := repos.NewTermAssignmentRepo(thePG, log)
	embeddingRecordRepo := repos.NewEmbeddingRecordRepo(thePG, log)
	entitySignatureRepo := repos.NewEntitySignatureRepo(thePG, log)
	duplicateCandidateRepo := repos.NewDuplicateCandidateRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	embedClient := services.NewEmbedClient(log)
	embeddingService := services.NewEmbeddingService(thePG, log, embeddingRecordRepo, embedClient)
	signatureService := services.NewSignatureService(thePG, log, entitySignatureRepo)
	duplicateService := services.NewDuplicateService(thePG, log, embeddingService, signatureService, embeddingRecordRepo, duplicateCandidateRepo)
	measureResolver := services.NewMeasureResolver(thePG, log, measureRepo)
	goalService := services.NewGoalService(thePG, log, measureResolver, duplicateService,
		expectationRepo, goalRepo, expectationMeasureRepo, valueAlignmentRepo, termAssignmentRepo,
		valueRepo, termRepo, measureRepo)
	actionService := services.NewActionService(thePG, log, measureResolver, duplicateService,
		expectationRepo, actionRepo, expectationMeasureRepo, valueAlignmentRepo, termAssignmentRepo,
		valueRepo, termRepo, measureRepo)

	// Handlers
	log.Info("Setting up handlers...")
	goalHandler := httpH.NewGoalHandler(log, goalService)
	actionHandler := httpH.NewActionHandler(log, actionService)
	measureHandler := httpH.NewMeasureHandler(log, measureRepo)
	duplicateHandler := httpH.NewDuplicateHandler(log, duplicateService)
	adminHandler := httpH.NewAdminHandler(log, embeddingService)
	healthHandler := httpH.NewHealthHandler()

	// Router
	srv := appHTTP.NewServer(appHTTP.RouterConfig{
		Log:              log,
		GoalHandler:      goalHandler,
		ActionHandler:    actionHandler,
		MeasureHandler:   measureHandler,
		DuplicateHandler: duplicateHandler,
		AdminHandler:     adminHandler,
		HealthHandler:    healthHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := srv.Run(ctx, ":"+port); err != nil {
		log.Error("Server exited", "error", err)
	}

	// Let in-flight duplicate scans finish before the process exits.
	duplicateService.Drain()
}
