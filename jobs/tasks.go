package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRevenueWarmup is the task type for dashboard cache pre-population.
	TaskRevenueWarmup = "revenue:warmup"
)

// RevenueWarmupPayload selects which properties get their caches warmed.
type RevenueWarmupPayload struct {
	Scope string `json:"scope"`
}

// NewRevenueWarmupTask constructs an Asynq task for revenue cache warmup.
func NewRevenueWarmupTask(scope string) (*asynq.Task, error) {
	data, err := json.Marshal(RevenueWarmupPayload{Scope: scope})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRevenueWarmup, data, asynq.TaskID(uuid.NewString())), nil
}
