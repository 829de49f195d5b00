package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"smart-planner/internal/ai"
	"smart-planner/internal/config"
	"smart-planner/internal/logger"
	"smart-planner/internal/repository"
	"smart-planner/internal/server"
	"smart-planner/internal/service"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(cfg.Development); err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Error("open database", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	contextRepo := repository.NewContextRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	aiClient := ai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AIMaxRetries)
	if !aiClient.Configured() {
		logger.Warn("GEMINI_API_KEY not set, AI endpoints will fail fast")
	}

	taskService := service.NewTaskService(taskRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	contextService := service.NewContextService(contextRepo)
	insightService := service.NewInsightService(insightRepo)
	taskEnricher := service.NewTaskEnricher(aiClient, taskRepo, categoryRepo, contextRepo)
	contextEnricher := service.NewContextEnricher(aiClient, contextRepo)
	insightGenerator := service.NewInsightGenerator(aiClient, userRepo, taskRepo, contextRepo, insightRepo)

	srv := server.New(server.Deps{
		Users:            userRepo,
		Tasks:            taskService,
		Categories:       categoryService,
		Contexts:         contextService,
		Insights:         insightService,
		TaskEnricher:     taskEnricher,
		ContextEnricher:  contextEnricher,
		InsightGenerator: insightGenerator,
		AIClient:         aiClient,
	})

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.InsightsTime != "" && aiClient.Configured() {
		_, err := scheduler.ScheduleDaily(cfg.InsightsTime, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := insightGenerator.GenerateNightly(ctx); err != nil {
				logger.Error("nightly insights run", err)
			}
		})
		if err != nil {
			logger.Error("schedule nightly insights", err)
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("nightly insights scheduled", zap.String("time", cfg.InsightsTime))
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", err)
	}
}
