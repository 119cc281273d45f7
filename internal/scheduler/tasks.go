package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskBulkConvert = "leads.bulk_convert"

const TaskDeduplicate = "leads.deduplicate"

type BulkConvertPayload struct {
	LeadIDs []string `json:"leadIds"`
	Target  string   `json:"target"`
}

type DeduplicatePayload struct {
	Criteria []string `json:"criteria,omitempty"`
}

func NewBulkConvertTask(payload BulkConvertPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBulkConvert, data), nil
}

func ParseBulkConvertPayload(task *asynq.Task) (BulkConvertPayload, error) {
	var payload BulkConvertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return BulkConvertPayload{}, err
	}
	return payload, nil
}

func NewDeduplicateTask(payload DeduplicatePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeduplicate, data), nil
}

func ParseDeduplicatePayload(task *asynq.Task) (DeduplicatePayload, error) {
	var payload DeduplicatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DeduplicatePayload{}, err
	}
	return payload, nil
}
