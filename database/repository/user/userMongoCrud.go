package userRepo

import (
	"context"
	"fmt"
	"time"

	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Bookings == nil {
		user.Bookings = []models.Booking{}
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) UpdateSet(ctx context.Context, id string, updateDoc bson.M) error {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range updateDoc {
		set[k] = v
	}
	return r.update(ctx, id, bson.M{"$set": set}, nil)
}

func (r *MongoUserRepo) AppendBooking(ctx context.Context, id string, booking models.Booking) error {
	update := bson.M{
		"$push": bson.M{"bookings": booking},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	return r.update(ctx, id, update, nil)
}

// SetBookingStatus touches only mirrors that are not already cancelled, so a
// re-booked slot keeps the old cancelled entry intact.
func (r *MongoUserRepo) SetBookingStatus(ctx context.Context, id string, key BookingKey, status string) error {
	update := bson.M{
		"$set": bson.M{
			"bookings.$[b].time.status": status,
			"updatedAt":                 time.Now(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{
			"b.listingId":      key.ListingID,
			"b.date":           key.Date,
			"b.time.startTime": key.StartTime,
			"b.time.endTime":   key.EndTime,
			"b.time.status":    bson.M{"$ne": models.BookingStatusCancelled},
		}},
	})
	return r.update(ctx, id, update, opts)
}

func (r *MongoUserRepo) update(ctx context.Context, id string, update bson.M, opts *options.UpdateOptions) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		result *mongo.UpdateResult
		err    error
	)
	if opts != nil {
		result, err = r.coll.UpdateOne(ctx, bson.M{"id": id}, update, opts)
	} else {
		result, err = r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	}
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user document by its ID.
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
