package memory

import (
	"context"
	"time"

	userRepo "courtside/database/repository/user"
	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
)

const usersColl = "users"

// UserRepo implements userRepo.UserRepository in memory.
type UserRepo struct {
	db *DB
}

func (db *DB) Users() *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	var u models.User
	ok, err := r.db.get(usersColl, id, &u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	if u.Bookings == nil {
		u.Bookings = []models.Booking{}
	}
	return &u, nil
}

func (r *UserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, id := range r.db.ids(usersColl) {
		u, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		u.Bookings = nil
		out = append(out, *u)
	}
	return out, nil
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	if r.db.has(usersColl, user.ID) {
		return userRepo.ErrUserExists
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Bookings == nil {
		user.Bookings = []models.Booking{}
	}
	return r.db.put(usersColl, user.ID, user)
}

// UpdateSet supports top-level keys only.
func (r *UserRepo) UpdateSet(ctx context.Context, id string, updateDoc bson.M) error {
	return r.mutate(ctx, id, func(u *models.User) error {
		return applySet(u, updateDoc)
	})
}

func (r *UserRepo) AppendBooking(ctx context.Context, id string, booking models.Booking) error {
	return r.mutate(ctx, id, func(u *models.User) error {
		u.Bookings = append(u.Bookings, booking)
		return nil
	})
}

func (r *UserRepo) SetBookingStatus(ctx context.Context, id string, key userRepo.BookingKey, status string) error {
	return r.mutate(ctx, id, func(u *models.User) error {
		for i, b := range u.Bookings {
			if b.Matches(key.ListingID, key.Date, key.StartTime, key.EndTime) &&
				b.Time.Status != models.BookingStatusCancelled {
				u.Bookings[i].Time.Status = status
			}
		}
		return nil
	})
}

func (r *UserRepo) mutate(ctx context.Context, id string, fn func(*models.User) error) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	return r.db.put(usersColl, id, u)
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	if !r.db.remove(usersColl, id) {
		return userRepo.ErrUserNotFound
	}
	return nil
}
