package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/http/router"
	"crm_backend/internal/leads"
	"crm_backend/internal/leads/handler"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/scheduler"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	"crm_backend/platform/metrics"
	"crm_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var conn *repository.Connection
	if err := withRetry(ctx, log, "document store connection", 5, 2*time.Second, func() error {
		c, err := repository.Connect(ctx, cfg, log)
		if err != nil {
			return err
		}
		conn = c
		return nil
	}); err != nil {
		log.Error("failed to connect to document store", "error", err)
		panic("failed to connect to document store: " + err.Error())
	}
	defer conn.Close()
	log.Info("document store connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	events.RegisterMetrics(eventBus)

	jobs, closeJobs := initJobClient(cfg, log)
	if closeJobs != nil {
		defer closeJobs()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule, err := leads.NewModule(conn.Stores, eventBus, jobs, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.Handler(),
		Modules: []apphttp.Module{
			leadsModule,
		},
	}
	if conn.Health != nil {
		app.Health = conn.Health
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initJobClient returns a nil enqueuer when no redis is configured so async
// requests fail with 503 instead of hanging.
func initJobClient(cfg *config.Config, log *logger.Logger) (handler.JobEnqueuer, func()) {
	if !cfg.IsSchedulerEnabled() {
		log.Warn("REDIS_URL not configured; async bulk conversion and deduplication disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize job client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
