package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"courtside/models"

	"github.com/hibiken/asynq"
)

const TypeSendEmail = "email:send"

// NewEmailTask wraps an outgoing message for the worker queue.
func NewEmailTask(payload models.EmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSendEmail, b,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}

// ParseEmailTask decodes the payload written by NewEmailTask.
func ParseEmailTask(t *asynq.Task) (models.EmailPayload, error) {
	var p models.EmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid email payload: %w", err)
	}
	if p.To == "" || p.Subject == "" {
		return p, fmt.Errorf("email payload missing recipient or subject")
	}
	return p, nil
}
