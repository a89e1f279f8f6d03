package userRepo

import (
	"context"
	"errors"

	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by their identity uid.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetAll returns every user without booking history.
	GetAll(ctx context.Context) ([]models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// UpdateSet applies a $set document to the user.
	UpdateSet(ctx context.Context, id string, updateDoc bson.M) error
	// AppendBooking pushes a mirrored booking onto the user's history.
	AppendBooking(ctx context.Context, id string, booking models.Booking) error
	// SetBookingStatus updates the status of the active mirror of one slot.
	SetBookingStatus(ctx context.Context, id string, key BookingKey, status string) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
}

// BookingKey identifies one mirrored booking inside a user's history.
type BookingKey struct {
	ListingID string
	Date      string
	StartTime string
	EndTime   string
}
