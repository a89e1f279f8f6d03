package user

import (
	"context"
	"errors"
	"time"

	"courtside/database/repository"
	"courtside/models"
	"courtside/services/identity"

	"go.uber.org/zap"
)

var ErrNothingToUpdate = errors.New("no fields to update")

type UserService interface {
	Register(ctx context.Context, reg models.UserRegistration) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Bookings(ctx context.Context, id string) ([]models.Booking, error)
	SyncEmails(ctx context.Context) (*SyncReport, error)
}

// SyncReport summarizes one email reconciliation run.
type SyncReport struct {
	Scanned    int       `json:"scanned"`
	Updated    int       `json:"updated"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Service is the production implementation.
type Service struct {
	users  repository.UserRepository
	idp    identity.Provider
	logger *zap.Logger
}

func NewService(users repository.UserRepository, idp identity.Provider, logger *zap.Logger) *Service {
	return &Service{users: users, idp: idp, logger: logger}
}
