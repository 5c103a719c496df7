package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Stock-Research-Backend/internal/api"
	"github.com/ndewijer/Stock-Research-Backend/internal/auth"
	"github.com/ndewijer/Stock-Research-Backend/internal/config"
	"github.com/ndewijer/Stock-Research-Backend/internal/database"
	"github.com/ndewijer/Stock-Research-Backend/internal/llm"
	"github.com/ndewijer/Stock-Research-Backend/internal/logging"
	"github.com/ndewijer/Stock-Research-Backend/internal/metrics"
	"github.com/ndewijer/Stock-Research-Backend/internal/repository"
	"github.com/ndewijer/Stock-Research-Backend/internal/screener"
	"github.com/ndewijer/Stock-Research-Backend/internal/service"
	"github.com/ndewijer/Stock-Research-Backend/internal/version"
	"github.com/ndewijer/Stock-Research-Backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // Nothing useful to do if the final flush fails
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()
	m := metrics.New()

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Connected to database", zap.String("path", cfg.Database.Path))

	financeClient, err := yahoo.NewFinanceClient(cfg.Finance, logger, m)
	if err != nil {
		return err
	}
	defer financeClient.Close()

	completer, err := llm.New(ctx, cfg.LLM, logger, m)
	if err != nil {
		return err
	}

	sessions, err := auth.NewSessionManager(cfg.Session.Key, cfg.Session.TTL)
	if err != nil {
		return err
	}
	if cfg.Session.Key == "" {
		logger.Warn("SESSION_KEY not set, sessions will not survive a restart")
	}

	// Create repositories
	profileRepo := repository.NewProfileRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	counterRepo := repository.NewSymbolCounterRepository(db)

	// Create services
	tracker := service.NewRequestTracker(m)
	activityService := service.NewActivityService(activityRepo, logger, m)
	conversationService := service.NewConversationService(conversationRepo)

	svc := api.Services{
		System: service.NewSystemService(db, completer.Name(), map[string]bool{
			"chat":          true,
			"risk_analysis": cfg.LLM.APIKey != "",
			"market_data":   cfg.Finance.Key != "",
			"log_pruning":   cfg.Database.LogRetentionDays > 0,
			"internal_api":  cfg.Server.InternalAPIKey != "",
		}),
		Auth:         service.NewAuthService(profileRepo, activityService, sessions),
		Profile:      service.NewProfileService(profileRepo, activityService),
		Activity:     activityService,
		Conversation: conversationService,
		Chat: service.NewChatService(
			conversationRepo,
			profileRepo,
			counterRepo,
			conversationService,
			activityService,
			completer,
			financeClient,
			cfg.Limits.FreeQuestionLimit,
			logger,
		),
		Search:    service.NewSearchService(financeClient, counterRepo, activityService, tracker, logger),
		Screener:  service.NewScreenerService(financeClient, screener.NewAdmission(cfg.Screener), activityService, tracker, logger),
		Watchlist: service.NewWatchlistService(financeClient),
		Trade:     service.NewTradeService(activityService, logger),
		Risk:      service.NewRiskService(profileRepo, activityService, completer, logger),
	}

	maintenance := service.NewMaintenanceService(activityService, cfg.Database.LogRetentionDays, logger)
	if err := maintenance.Start(); err != nil {
		return err
	}

	router := api.NewRouter(svc, sessions, cfg, logger, m)

	// Create HTTP server. WriteTimeout is left generous for LLM round trips;
	// WebSocket connections are hijacked and not bound by it.
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.LLM.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version.Version),
			zap.String("llm_provider", completer.Name()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maintenance.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}
