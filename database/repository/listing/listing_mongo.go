package listingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 5 * time.Second
	longTimeout    = 15 * time.Second
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// NewMongoListingRepo creates the repository and makes sure its indexes exist.
func NewMongoListingRepo(ctx context.Context, db *mongo.Database) (*MongoListingRepo, error) {
	repo := &MongoListingRepo{
		coll:     db.Collection("listings"),
		counters: db.Collection("counters"),
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// withTimeout bounds a single driver call. A session carried by ctx survives.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	var listing models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to fetch listing with id %s: %w", id, err)
	}
	return &listing, nil
}

func (r *MongoListingRepo) GetAll(ctx context.Context) ([]models.Listing, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoListingRepo) ListByPartner(ctx context.Context, partnerID string) ([]models.Listing, error) {
	return r.find(ctx, bson.M{"partnerId": partnerID})
}

func (r *MongoListingRepo) find(ctx context.Context, filter bson.M) ([]models.Listing, error) {
	ctx, cancel := withTimeout(ctx, longTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "numId", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings := []models.Listing{}
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	return listings, nil
}

// NextNumID increments the listings counter, creating it on first use.
func (r *MongoListingRepo) NextNumID(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "listings"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate listing number: %w", err)
	}
	return counter.Seq, nil
}
