package cron

import (
	"context"
	"fmt"
	"time"

	"courtside/services/notification"
	"courtside/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// EmailWorker consumes queued email tasks and delivers them through a Mailer.
type EmailWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewEmailWorker(redisOpt asynq.RedisConnOpt, mailer notification.Mailer, logger *zap.Logger) *EmailWorker {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendEmail, HandleEmailTask(mailer, logger))

	return &EmailWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background, retrying startup with a growing delay.
func (w *EmailWorker) Start() {
	go func() {
		w.logger.Info("Starting email worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("Email worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("Email worker gave up; queued mail will wait for the next start")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *EmailWorker) Shutdown() {
	w.srv.Shutdown()
	w.logger.Info("Email worker stopped")
}

// HandleEmailTask delivers one queued email. Malformed payloads are not retried.
func HandleEmailTask(mailer notification.Mailer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseEmailTask(task)
		if err != nil {
			logger.Error("Dropping invalid email task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := mailer.Send(ctx, p); err != nil {
			logger.Warn("Email delivery failed", zap.String("to", p.To), zap.Error(err))
			return err
		}
		logger.Debug("Email delivered", zap.String("to", p.To), zap.String("subject", p.Subject))
		return nil
	}
}
