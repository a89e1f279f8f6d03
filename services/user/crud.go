package user

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"courtside/models"
	"courtside/services/identity"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Register creates the identity record and then the user document, removing
// the identity record again if the document insert fails.
func (s *Service) Register(ctx context.Context, reg models.UserRegistration) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	u := &models.User{
		FirstName:         strings.TrimSpace(reg.FirstName),
		LastName:          strings.TrimSpace(reg.LastName),
		Email:             email,
		PhoneNumber:       reg.PhoneNumber,
		PreferredEmirate:  reg.PreferredEmirate,
		PreferredDistrict: reg.PreferredDistrict,
		EmailSubscription: reg.EmailSubscription,
		Bookings:          []models.Booking{},
	}

	uid, err := s.idp.CreateAccount(ctx, identity.NewAccount{
		Email:       email,
		Password:    reg.Password,
		DisplayName: u.FullName(),
		Role:        identity.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	u.ID = uid
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	if err := s.users.Create(ctx, u); err != nil {
		if delErr := s.idp.DeleteAccount(ctx, uid); delErr != nil {
			s.logger.Error("Failed to roll back identity account",
				zap.String("userID", uid), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("User registered", zap.String("userID", uid))
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	set := bson.M{}
	if upd.FirstName != nil {
		set["firstName"] = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		set["lastName"] = strings.TrimSpace(*upd.LastName)
	}
	if upd.PhoneNumber != nil {
		set["phoneNumber"] = *upd.PhoneNumber
	}
	if upd.PreferredEmirate != nil {
		set["preferredEmirate"] = *upd.PreferredEmirate
	}
	if upd.PreferredDistrict != nil {
		set["preferredDistrict"] = *upd.PreferredDistrict
	}
	if upd.EmailSubscription != nil {
		set["emailSubscription"] = *upd.EmailSubscription
	}
	if len(set) == 0 {
		return nil, ErrNothingToUpdate
	}
	set["updatedAt"] = time.Now().UTC()

	if err := s.users.UpdateSet(ctx, id, set); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// Delete removes the user document and identity record. Slots the user holds
// stay booked until a partner cancels them.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.idp.DeleteAccount(ctx, id); err != nil && !errors.Is(err, identity.ErrAccountMissing) {
		return fmt.Errorf("user document deleted but identity removal failed: %w", err)
	}
	s.logger.Info("User deleted", zap.String("userID", id))
	return nil
}

// Bookings returns the user's booking history, most recent slot first.
func (s *Service) Bookings(ctx context.Context, id string) ([]models.Booking, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := append([]models.Booking{}, u.Bookings...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time.StartTime > out[j].Time.StartTime
	})
	return out, nil
}
