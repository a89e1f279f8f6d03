package partnerRepo

import (
	"context"
	"errors"

	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrPartnerExists   = errors.New("partner already exists")
)

// PartnerRepository defines methods for partner data access.
type PartnerRepository interface {
	GetByID(ctx context.Context, id string) (*models.Partner, error)
	// GetAll returns every partner without payment details.
	GetAll(ctx context.Context) ([]models.Partner, error)
	Create(ctx context.Context, partner *models.Partner) error
	// UpdateSet applies a $set document to the partner.
	UpdateSet(ctx context.Context, id string, updateDoc bson.M) error
	// PushListing adds listingID to the partner's listing ids.
	PushListing(ctx context.Context, id, listingID string) error
	// PullListing removes listingID from the partner's listing ids.
	PullListing(ctx context.Context, id, listingID string) error
	SetBillingDates(ctx context.Context, id string, dates models.BillingDates) error
	SetPayment(ctx context.Context, id string, payment models.PaymentOnFile) error
	Delete(ctx context.Context, id string) error
}
