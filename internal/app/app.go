// Package app assembles the web service: configuration, logging, database,
// pipeline, KPI engine and the HTTP server with graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"ficaetl/internal/config"
	"ficaetl/internal/files"
	"ficaetl/internal/infrastructure"
	"ficaetl/internal/kpi"
	"ficaetl/internal/operations"
	"ficaetl/internal/persistence"
	handlers "ficaetl/internal/transport/http"
)

// Version identifies the running build.
const Version = "1.0.0"

// Application is the composed web service.
type Application struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Tracker *operations.Tracker
	Server  *http.Server
}

// NewApplication wires the full service from configuration. The caller owns
// the returned application and must call Run.
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	manager := files.NewManager(cfg.Paths)
	if err := manager.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("preparing data directories: %w", err)
	}

	pool, err := persistence.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if cfg.Database.MigrateOnStart {
		if err := persistence.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	store := persistence.NewStore(pool, logger)
	tracker := operations.NewTracker()
	pipeline := operations.NewPipeline(store, tracker, logger)
	engine := kpi.NewEngine(store, logger)
	metrics := infrastructure.NewMetrics()

	router := handlers.NewRouter(handlers.RouterDeps{
		Config:   cfg,
		Logger:   logger,
		Metrics:  metrics,
		Pipeline: handlers.NewPipelineHandler(pipeline, tracker, manager, metrics, cfg.Server.MaxUploadBytes, logger),
		KPI:      handlers.NewKPIHandler(engine, metrics, logger),
		Health:   handlers.NewHealthHandler(pool, Version, logger),
	})

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Tracker: tracker,
		Server:  server,
	}, nil
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.InfoContext(ctx, "server listening",
			"addr", a.Server.Addr,
			"version", Version,
		)
		serveErr <- a.Server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down",
		"timeout", a.Config.Server.ShutdownTimeout.String(),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	a.Pool.Close()
	return nil
}
