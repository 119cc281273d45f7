package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/scheduler"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"
	"crm_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "store", cfg.StoreDriver)

	if !cfg.IsSchedulerEnabled() {
		panic("REDIS_URL is required to run the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)
	events.RegisterMetrics(eventBus)

	// Worker-side lead services (no HTTP handlers, no job enqueuer).
	leadsModule, err := leads.NewModule(conn.Stores, eventBus, nil, validator.New(), cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	worker, err := scheduler.NewWorker(cfg, leadsModule.ConversionService(), leadsModule.DedupService(), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
