package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"courtside/database/repository"

	"go.uber.org/zap"
)

var ErrRunInProgress = errors.New("billing run already in progress")

// RunReport summarizes one pass over all partners.
type RunReport struct {
	Scanned     int       `json:"scanned"`
	Initialized int       `json:"initialized"`
	Advanced    int       `json:"advanced"`
	Failed      int       `json:"failed"`
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Service advances partner billing cycles. The scheduler and the admin
// endpoint both call Run.
type Service struct {
	partners repository.PartnerRepository
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
	running  sync.Mutex
}

func NewService(partners repository.PartnerRepository, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		partners: partners,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run scans every partner once. A failure on one partner is counted and
// logged; the pass continues.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	now := s.now()
	report := &RunReport{StartedAt: now}

	partners, err := s.partners.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range partners {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++

		next, change := Advance(p.BillingDates, now, s.loc)
		if change == Unchanged {
			continue
		}
		if err := s.partners.SetBillingDates(ctx, p.ID, next); err != nil {
			report.Failed++
			s.logger.Error("Failed to update billing dates",
				zap.String("partnerID", p.ID), zap.Error(err))
			continue
		}
		switch change {
		case Initialized:
			report.Initialized++
		case Advanced:
			report.Advanced++
		}
		s.logger.Debug("Billing dates updated",
			zap.String("partnerID", p.ID),
			zap.String("change", change.String()),
			zap.Time("nextBillingAt", next.NextBillingAt))
	}

	report.FinishedAt = s.now()
	s.logger.Info("Billing run finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("initialized", report.Initialized),
		zap.Int("advanced", report.Advanced),
		zap.Int("failed", report.Failed))
	return report, nil
}
