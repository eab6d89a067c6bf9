package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/quiz-service/internal/cache"
	"github.com/SAP-F-2025/quiz-service/internal/config"
	"github.com/SAP-F-2025/quiz-service/internal/handlers"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/memory"
	"github.com/SAP-F-2025/quiz-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/quiz-service/internal/services"
	"github.com/SAP-F-2025/quiz-service/internal/utils"
	"github.com/SAP-F-2025/quiz-service/internal/validator"
	"github.com/SAP-F-2025/quiz-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.LogError(err, "Server stopped with error")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slogger := logger.Slog()

	repo, err := openRepository(cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	cacheService := openCache(ctx, cfg, logger)

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	opts := services.DefaultOptions()
	opts.ShuffleSeedPerSession = cfg.ShuffleSeedPerSession
	opts.CleanupPolicy = services.CleanupPolicy(cfg.CaptureCleanupPolicy)
	opts.CacheTTL = cfg.CacheTTL

	svc := services.NewServices(repo, cacheService, publisher, slogger, validator.New(), opts)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger))
	handlers.NewHandlerManager(svc, repo, logger, cfg.AdminAPIEnabled).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "storage", cfg.StorageDriver, "admin_api", cfg.AdminAPIEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepository(cfg *config.Config, logger utils.Logger) (repositories.Repository, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database")
	return postgres.NewRepository(db), nil
}

// openCache falls back to an in-process cache when redis is unreachable.
func openCache(ctx context.Context, cfg *config.Config, logger utils.Logger) cache.CacheService {
	if !cfg.CacheEnabled {
		return cache.NewNoopCache()
	}

	client, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", "error", err)
		return cache.NewMemoryCache()
	}
	return cache.NewRedisCache(client, logger.Slog())
}
