package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"crm_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// resultRetention keeps finished task results around so callers can look
// them up by task id.
const resultRetention = 24 * time.Hour

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueBulkConvert schedules a bulk conversion and returns the task id.
func (c *Client) EnqueueBulkConvert(ctx context.Context, leadIDs []string, target string) (string, error) {
	task, err := NewBulkConvertTask(BulkConvertPayload{LeadIDs: leadIDs, Target: target})
	if err != nil {
		return "", err
	}
	return c.enqueue(ctx, task)
}

// EnqueueDeduplicate schedules a deduplication run and returns the task id.
func (c *Client) EnqueueDeduplicate(ctx context.Context, criteria []string) (string, error) {
	task, err := NewDeduplicateTask(DeduplicatePayload{Criteria: criteria})
	if err != nil {
		return "", err
	}
	return c.enqueue(ctx, task)
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task) (string, error) {
	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.Retention(resultRetention))
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func queueName(cfg config.SchedulerConfig) string {
	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}
	return queue
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
