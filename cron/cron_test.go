package cron_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtside/cron"
	"courtside/models"
	"courtside/services/billing"
	"courtside/services/tasks"
	"courtside/services/user"
)

type fakeMailer struct {
	sent []models.EmailPayload
	err  error
}

func (m *fakeMailer) Send(_ context.Context, p models.EmailPayload) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, p)
	return nil
}

func TestHandleEmailTask(t *testing.T) {
	mailer := &fakeMailer{}
	handler := cron.HandleEmailTask(mailer, zap.NewNop())

	payload := models.EmailPayload{To: "sam@example.com", Subject: "Booking confirmed", HTML: "<p>hi</p>"}
	task, err := tasks.NewEmailTask(payload)
	require.NoError(t, err)

	require.NoError(t, handler.ProcessTask(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, payload, mailer.sent[0])
}

func TestHandleEmailTask_MalformedSkipsRetry(t *testing.T) {
	handler := cron.HandleEmailTask(&fakeMailer{}, zap.NewNop())

	err := handler.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeSendEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleEmailTask_DeliveryErrorRetries(t *testing.T) {
	boom := errors.New("relay down")
	handler := cron.HandleEmailTask(&fakeMailer{err: boom}, zap.NewNop())

	task, err := tasks.NewEmailTask(models.EmailPayload{To: "sam@example.com", Subject: "x", HTML: "y"})
	require.NoError(t, err)

	err = handler.ProcessTask(context.Background(), task)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

type fakeBilling struct {
	calls int32
	err   error
}

func (f *fakeBilling) Run(context.Context) (*billing.RunReport, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &billing.RunReport{Scanned: 2, Advanced: 1}, nil
}

type fakeSyncer struct {
	calls int32
}

func (f *fakeSyncer) SyncEmails(context.Context) (*user.SyncReport, error) {
	atomic.AddInt32(&f.calls, 1)
	return &user.SyncReport{}, nil
}

func TestScheduler_Jobs(t *testing.T) {
	b := &fakeBilling{}
	e := &fakeSyncer{}
	s := cron.NewScheduler(b, e, nil, zap.NewNop())

	s.BillingJob()
	s.EmailSyncJob()
	assert.Equal(t, int32(1), atomic.LoadInt32(&b.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&e.calls))

	b.err = errors.New("mongo unavailable")
	assert.NotPanics(t, s.BillingJob)
}

func TestScheduler_Start(t *testing.T) {
	s := cron.NewScheduler(&fakeBilling{}, &fakeSyncer{}, nil, zap.NewNop())
	require.NoError(t, s.Start(cron.Schedule{Billing: "0 5 0 * * *", EmailSync: "0 30 3 * * *"}))
	s.Stop()

	bad := cron.NewScheduler(&fakeBilling{}, &fakeSyncer{}, nil, zap.NewNop())
	assert.Error(t, bad.Start(cron.Schedule{Billing: "every day", EmailSync: "0 30 3 * * *"}))
}
