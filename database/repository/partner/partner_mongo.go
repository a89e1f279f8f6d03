package partnerRepo

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

// MongoPartnerRepo implements PartnerRepository using MongoDB.
type MongoPartnerRepo struct {
	coll *mongo.Collection
}

// NewMongoPartnerRepo creates the repository and makes sure its indexes exist.
func NewMongoPartnerRepo(ctx context.Context, db *mongo.Database) (*MongoPartnerRepo, error) {
	repo := &MongoPartnerRepo{coll: db.Collection("partners")}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoPartnerRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, longTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "companyEmail", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "billingDates.nextBillingAt", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create partner indexes: %w", err)
	}
	return nil
}

func (r *MongoPartnerRepo) GetByID(ctx context.Context, id string) (*models.Partner, error) {
	ctx, cancel := withTimeout(ctx, defaultTimeout)
	defer cancel()

	var partner models.Partner
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&partner); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to fetch partner with id %s: %w", id, err)
	}
	if partner.Listings == nil {
		partner.Listings = []string{}
	}
	return &partner, nil
}

func (r *MongoPartnerRepo) GetAll(ctx context.Context) ([]models.Partner, error) {
	ctx, cancel := withTimeout(ctx, longTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"payment": 0})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer cursor.Close(ctx)

	partners := []models.Partner{}
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode partners: %w", err)
	}
	return partners, nil
}
