package scheduler

import (
	"context"
	"errors"
	"testing"

	"crm_backend/internal/leads/conversion"
	"crm_backend/internal/leads/dedup"
	"crm_backend/internal/leads/domain"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestClientEnqueuesOnConfiguredQueue(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	taskID, err := client.EnqueueBulkConvert(context.Background(), []string{"a", "b"}, "contact")
	require.NoError(t, err)
	assert.NotEmpty(t, taskID)

	dedupID, err := client.EnqueueDeduplicate(context.Background(), []string{"email"})
	require.NoError(t, err)
	assert.NotEqual(t, taskID, dedupID)

	pending, err := mr.List("asynq:{default}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestNewClientRequiresRedis(t *testing.T) {
	_, err := NewClient(testSchedulerConfig{})
	assert.Error(t, err)
}

func TestTaskPayloads(t *testing.T) {
	task, err := NewBulkConvertTask(BulkConvertPayload{LeadIDs: []string{"x"}, Target: "account"})
	require.NoError(t, err)
	assert.Equal(t, TaskBulkConvert, task.Type())

	payload, err := ParseBulkConvertPayload(task)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, payload.LeadIDs)
	assert.Equal(t, "account", payload.Target)

	_, err = ParseDeduplicatePayload(asynq.NewTask(TaskDeduplicate, []byte("{")))
	assert.Error(t, err)
}

type fakeConverter struct {
	gotIDs    []string
	gotTarget domain.Target
	err       error
}

func (f *fakeConverter) BulkConvert(_ context.Context, ids []string, target domain.Target) (conversion.BulkResult, error) {
	f.gotIDs = ids
	f.gotTarget = target
	return conversion.BulkResult{ConvertedCount: len(ids)}, f.err
}

type fakeDeduplicator struct {
	err error
}

func (f fakeDeduplicator) Deduplicate(context.Context, []string) (dedup.Result, error) {
	return dedup.Result{}, f.err
}

func TestWorkerHandlesBulkConvert(t *testing.T) {
	conv := &fakeConverter{}
	w := &Worker{converter: conv, dedup: fakeDeduplicator{}, log: logger.Discard()}

	task, err := NewBulkConvertTask(BulkConvertPayload{LeadIDs: []string{"l1"}, Target: "account"})
	require.NoError(t, err)

	require.NoError(t, w.handleBulkConvert(context.Background(), task))
	assert.Equal(t, []string{"l1"}, conv.gotIDs)
	assert.Equal(t, domain.TargetAccount, conv.gotTarget)
}

func TestWorkerSkipsRetryForCallerErrors(t *testing.T) {
	w := &Worker{
		converter: &fakeConverter{err: errors.New("connection reset")},
		dedup:     fakeDeduplicator{err: apperr.Validation("invalid deduplication criteria")},
		log:       logger.Discard(),
	}

	dedupTask, err := NewDeduplicateTask(DeduplicatePayload{Criteria: []string{"nope"}})
	require.NoError(t, err)
	err = w.handleDeduplicate(context.Background(), dedupTask)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	bulkTask, err := NewBulkConvertTask(BulkConvertPayload{LeadIDs: []string{"l1"}, Target: "contact"})
	require.NoError(t, err)
	err = w.handleBulkConvert(context.Background(), bulkTask)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	err = w.handleBulkConvert(context.Background(), asynq.NewTask(TaskBulkConvert, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
