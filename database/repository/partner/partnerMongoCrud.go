package partnerRepo

import (
	"context"
	"fmt"
	"time"

	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new partner document.
func (r *MongoPartnerRepo) Create(ctx context.Context, partner *models.Partner) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	partner.CreatedAt = now
	partner.UpdatedAt = now
	if partner.Listings == nil {
		partner.Listings = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, partner); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrPartnerExists
		}
		return fmt.Errorf("failed to create partner: %w", err)
	}
	return nil
}

func (r *MongoPartnerRepo) UpdateSet(ctx context.Context, id string, updateDoc bson.M) error {
	set := bson.M{"updatedAt": time.Now()}
	for k, v := range updateDoc {
		set[k] = v
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *MongoPartnerRepo) PushListing(ctx context.Context, id, listingID string) error {
	return r.update(ctx, id, bson.M{
		"$addToSet": bson.M{"listings": listingID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoPartnerRepo) PullListing(ctx context.Context, id, listingID string) error {
	return r.update(ctx, id, bson.M{
		"$pull": bson.M{"listings": listingID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoPartnerRepo) SetBillingDates(ctx context.Context, id string, dates models.BillingDates) error {
	return r.UpdateSet(ctx, id, bson.M{"billingDates": dates})
}

func (r *MongoPartnerRepo) SetPayment(ctx context.Context, id string, payment models.PaymentOnFile) error {
	return r.UpdateSet(ctx, id, bson.M{"payment": payment})
}

func (r *MongoPartnerRepo) update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update partner with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrPartnerNotFound
	}
	return nil
}

// Delete removes a partner document by its ID.
func (r *MongoPartnerRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete partner with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrPartnerNotFound
	}
	return nil
}
