package user

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// SyncEmails copies the identity provider's current address onto every user
// document whose stored email differs. Failures are counted and skipped.
func (s *Service) SyncEmails(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{StartedAt: time.Now().UTC()}

	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Scanned++

		current, err := s.idp.Email(ctx, u.ID)
		if err != nil {
			report.Failed++
			s.logger.Warn("Could not read identity email", zap.String("userID", u.ID), zap.Error(err))
			continue
		}
		current = strings.ToLower(strings.TrimSpace(current))
		if current == "" || current == u.Email {
			continue
		}
		if err := s.users.UpdateSet(ctx, u.ID, bson.M{"email": current, "updatedAt": time.Now().UTC()}); err != nil {
			report.Failed++
			s.logger.Error("Failed to update user email", zap.String("userID", u.ID), zap.Error(err))
			continue
		}
		report.Updated++
	}

	report.FinishedAt = time.Now().UTC()
	s.logger.Info("User email sync finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed))
	return report, nil
}
