package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-backend/internal/domains/category/model"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Queue names, trọng số ở cmd/worker
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// Enqueuer là phần của *asynq.Client mà publisher dùng
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqPublisher publish CategoryEvent thành asynq task.
// TaskID = EventID nên publish lại cùng 1 event không tạo task trùng.
type AsynqPublisher struct {
	client Enqueuer
}

func NewAsynqPublisher(client Enqueuer) *AsynqPublisher {
	return &AsynqPublisher{client: client}
}

func (p *AsynqPublisher) Publish(ctx context.Context, event model.CategoryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", event.Type, err)
	}

	task := asynq.NewTask(event.Type, payload)
	info, err := p.client.EnqueueContext(
		ctx,
		task,
		asynq.Queue(QueueDefault),
		asynq.TaskID(event.EventID),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", event.Type, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("type", event.Type).
		Int("categories", len(event.CategoryIDs)).
		Msg("category event enqueued")
	return nil
}

// NoopPublisher dùng khi QUEUE_ENABLED=false, chỉ log
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, event model.CategoryEvent) error {
	log.Debug().
		Str("type", event.Type).
		Str("event_id", event.EventID).
		Msg("queue disabled, category event dropped")
	return nil
}
