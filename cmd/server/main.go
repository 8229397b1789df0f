// Crossing Risk - border-crossing risk scoring and anomaly detection service
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

	"github.com/frontera-ops/crossing-risk/internal/config"
	"github.com/frontera-ops/crossing-risk/internal/detector"
	"github.com/frontera-ops/crossing-risk/internal/handler"
	"github.com/frontera-ops/crossing-risk/internal/logging"
	"github.com/frontera-ops/crossing-risk/internal/monitor"
	"github.com/frontera-ops/crossing-risk/internal/seed"
	"github.com/frontera-ops/crossing-risk/internal/service"
	"github.com/frontera-ops/crossing-risk/internal/storage"
	"github.com/frontera-ops/crossing-risk/internal/traces"
)

// Build info - set by ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// degradedFailureRate is the 5-minute detection failure percentage above
// which /health reports "degraded".
const degradedFailureRate = 20.0

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting crossing-risk", "version", Version, "commit", Commit, "env", cfg.Env)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := traces.Init(ctx, cfg.OTLPEndpoint, Version, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	metrics := monitor.NewMetrics()

	// Record store
	var repo storage.Repository
	if cfg.UsesDatabase() {
		db, err := storage.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("connected to postgres")
		repo = storage.NewPostgresRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory record store")
		repo = storage.NewMemoryRepository()
	}

	if cfg.SeedData {
		n, err := seed.Load(ctx, repo, time.Now())
		if err != nil {
			logger.Warn("seed data not loaded", "error", err)
		} else {
			logger.Info("seed data loaded", "records", n)
		}
	}

	if cfg.RecordCacheTTL > 0 {
		repo = storage.NewCachedRepository(repo, cfg.RecordCacheTTL, metrics)
		logger.Info("record cache enabled", "ttl", cfg.RecordCacheTTL)
	}

	// Services
	anomalySvc := service.NewAnomalyService(repo, detector.New(detector.WithLocation(cfg.Location)), metrics)
	riskSvc := service.NewRiskService(metrics)
	crossingSvc := service.NewCrossingService(repo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(logger, handler.Handlers{
		Health:    handler.NewHealthHandler(repo, metrics, monitor.NewFailureWatch(metrics, degradedFailureRate)),
		Anomalies: handler.NewAnomalyHandler(anomalySvc),
		Risk:      handler.NewRiskHandler(riskSvc),
		Crossings: handler.NewCrossingHandler(crossingSvc),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
