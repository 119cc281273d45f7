package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crm_backend/internal/leads/conversion"
	"crm_backend/internal/leads/dedup"
	"crm_backend/internal/leads/domain"
	"crm_backend/platform/apperr"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// BulkConverter runs bulk lead conversions.
type BulkConverter interface {
	BulkConvert(ctx context.Context, leadIDs []string, target domain.Target) (conversion.BulkResult, error)
}

// Deduplicator runs lead deduplication.
type Deduplicator interface {
	Deduplicate(ctx context.Context, criteria []string) (dedup.Result, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	converter BulkConverter
	dedup     Deduplicator
	log       *logger.Logger
}

// WorkerConfig combines the settings the worker reads.
type WorkerConfig interface {
	config.SchedulerConfig
	GetDedupSchedule() string
}

func NewWorker(cfg WorkerConfig, converter BulkConverter, deduplicator Deduplicator, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := queueName(cfg)

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		converter: converter,
		dedup:     deduplicator,
		log:       log,
	}

	mux.HandleFunc(TaskBulkConvert, w.handleBulkConvert)
	mux.HandleFunc(TaskDeduplicate, w.handleDeduplicate)

	if schedule := cfg.GetDedupSchedule(); schedule != "" {
		w.scheduler = asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
		task, err := NewDeduplicateTask(DeduplicatePayload{})
		if err != nil {
			return nil, err
		}
		if _, err := w.scheduler.Register(schedule, task, asynq.Queue(queue), asynq.Retention(resultRetention)); err != nil {
			return nil, fmt.Errorf("register dedup schedule %q: %w", schedule, err)
		}
		log.Info("periodic deduplication scheduled", "cron", schedule)
	}

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			w.log.Error("periodic scheduler failed to start", "error", err)
		}
	}

	go func() {
		<-ctx.Done()
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleBulkConvert(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBulkConvertPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	res, err := w.converter.BulkConvert(ctx, payload.LeadIDs, domain.Target(payload.Target))
	if err != nil {
		return retryable(err)
	}

	w.log.Info("bulk conversion task finished",
		"target", payload.Target,
		"converted", res.ConvertedCount,
		"failed", len(res.Failures),
	)
	return writeResult(task, res)
}

func (w *Worker) handleDeduplicate(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDeduplicatePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	res, err := w.dedup.Deduplicate(ctx, payload.Criteria)
	if err != nil {
		return retryable(err)
	}

	return writeResult(task, res)
}

// retryable keeps infrastructure failures retryable and stops retries for
// errors the caller caused.
func retryable(err error) error {
	switch apperr.GetKind(err) {
	case apperr.KindValidation, apperr.KindBadRequest, apperr.KindNotFound, apperr.KindConflict:
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	default:
		return err
	}
}

func writeResult(task *asynq.Task, result any) error {
	rw := task.ResultWriter()
	if rw == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = rw.Write(data)
	return err
}
