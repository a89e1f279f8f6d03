package listingRepo

import (
	"context"
	"errors"

	"courtside/models"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	// ErrVersionConflict means the listing changed since it was read.
	ErrVersionConflict = errors.New("listing was modified concurrently")
)

// ListingRepository defines methods for listing data access. Writes honor a
// transaction when ctx carries one.
type ListingRepository interface {
	// GetByID retrieves a listing by its id.
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	// GetAll returns every listing.
	GetAll(ctx context.Context) ([]models.Listing, error)
	// ListByPartner returns the listings owned by partnerID.
	ListByPartner(ctx context.Context, partnerID string) ([]models.Listing, error)
	// Create inserts a new listing at version 1.
	Create(ctx context.Context, listing *models.Listing) error
	// Replace overwrites the listing if its stored version still equals listing.Version,
	// then bumps the version.
	Replace(ctx context.Context, listing *models.Listing) error
	// ReplaceDates swaps the dates array with the same version guard as Replace.
	ReplaceDates(ctx context.Context, id string, version int, dates []models.ListDate) error
	// Delete removes a listing by id.
	Delete(ctx context.Context, id string) error
	// NextNumID hands out the next listing ordinal.
	NextNumID(ctx context.Context) (int64, error)
}
