package notification

import (
	"context"
	"fmt"

	"courtside/models"
	"courtside/services/tasks"

	"github.com/hibiken/asynq"
)

// EmailQueue hands messages to the background worker.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, msg models.EmailPayload) error
}

// Enqueuer is the part of *asynq.Client the queue needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqEmailQueue queues email tasks in Redis through asynq.
type AsynqEmailQueue struct {
	client Enqueuer
}

func NewAsynqEmailQueue(client Enqueuer) *AsynqEmailQueue {
	return &AsynqEmailQueue{client: client}
}

func (q *AsynqEmailQueue) EnqueueEmail(ctx context.Context, msg models.EmailPayload) error {
	task, err := tasks.NewEmailTask(msg)
	if err != nil {
		return fmt.Errorf("failed to build email task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue email to %s: %w", msg.To, err)
	}
	return nil
}
