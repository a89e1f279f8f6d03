package cron

import (
	"context"
	"fmt"
	"time"

	"courtside/services/billing"
	"courtside/services/user"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BillingRunner runs one billing pass.
type BillingRunner interface {
	Run(ctx context.Context) (*billing.RunReport, error)
}

// EmailSyncer reconciles stored user emails with the identity provider.
type EmailSyncer interface {
	SyncEmails(ctx context.Context) (*user.SyncReport, error)
}

// Schedule holds the cron specs, with seconds, for each job.
type Schedule struct {
	Billing   string
	EmailSync string
}

// Scheduler runs the recurring jobs in the configured timezone.
type Scheduler struct {
	cron    *cron.Cron
	billing BillingRunner
	emails  EmailSyncer
	logger  *zap.Logger
	timeout time.Duration
}

func NewScheduler(billing BillingRunner, emails EmailSyncer, loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &Scheduler{
		cron:    c,
		billing: billing,
		emails:  emails,
		logger:  logger,
		timeout: 10 * time.Minute,
	}
}

// Start registers every job and starts the scheduler.
func (s *Scheduler) Start(sched Schedule) error {
	if _, err := s.cron.AddFunc(sched.Billing, s.BillingJob); err != nil {
		return fmt.Errorf("failed to schedule billing job: %w", err)
	}
	s.logger.Info("Scheduled billing cycle job", zap.String("schedule", sched.Billing))

	if _, err := s.cron.AddFunc(sched.EmailSync, s.EmailSyncJob); err != nil {
		return fmt.Errorf("failed to schedule email sync job: %w", err)
	}
	s.logger.Info("Scheduled user email sync job", zap.String("schedule", sched.EmailSync))

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) BillingJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	report, err := s.billing.Run(ctx)
	if err != nil {
		s.logger.Error("Billing job failed", zap.Error(err))
		return
	}
	s.logger.Info("Billing job finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("initialized", report.Initialized),
		zap.Int("advanced", report.Advanced),
		zap.Int("failed", report.Failed),
		zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) EmailSyncJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.emails.SyncEmails(ctx); err != nil {
		s.logger.Error("Email sync job failed", zap.Error(err))
	}
}
