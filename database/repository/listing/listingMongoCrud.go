package listingRepo

import (
	"context"
	"fmt"
	"time"

	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new listing document.
func (r *MongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	listing.Version = 1
	if listing.Dates == nil {
		listing.Dates = []models.ListDate{}
	}

	if _, err := r.coll.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// Replace overwrites everything but id, numId, partnerId and createdAt.
func (r *MongoListingRepo) Replace(ctx context.Context, listing *models.Listing) error {
	now := time.Now()
	set := bson.M{
		"name":        listing.Name,
		"description": listing.Description,
		"location":    listing.Location,
		"sport":       listing.Sport,
		"categories":  listing.Categories,
		"images":      listing.Images,
		"dates":       listing.Dates,
		"updatedAt":   now,
	}
	if err := r.updateVersioned(ctx, listing.ID, listing.Version, set); err != nil {
		return err
	}
	listing.Version++
	listing.UpdatedAt = now
	return nil
}

func (r *MongoListingRepo) ReplaceDates(ctx context.Context, id string, version int, dates []models.ListDate) error {
	return r.updateVersioned(ctx, id, version, bson.M{
		"dates":     dates,
		"updatedAt": time.Now(),
	})
}

// updateVersioned applies set only when the stored version equals version.
func (r *MongoListingRepo) updateVersioned(ctx context.Context, id string, version int, set bson.M) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"id": id, "version": version}
	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update listing with id %s: %w", id, err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to check listing with id %s: %w", id, err)
	}
	if n == 0 {
		return ErrListingNotFound
	}
	return ErrVersionConflict
}

// Delete removes a listing document by its id.
func (r *MongoListingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete listing with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrListingNotFound
	}
	return nil
}
