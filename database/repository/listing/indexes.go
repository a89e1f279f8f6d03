package listingRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoListingRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, longTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "numId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "partnerId", Value: 1}}},
		{Keys: bson.D{{Key: "sport", Value: 1}, {Key: "location", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}
