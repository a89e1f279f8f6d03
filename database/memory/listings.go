package memory

import (
	"context"
	"sort"
	"time"

	listingRepo "courtside/database/repository/listing"
	"courtside/models"
)

const listingsColl = "listings"

// ListingRepo implements listingRepo.ListingRepository in memory.
type ListingRepo struct {
	db *DB
}

func (db *DB) Listings() *ListingRepo {
	return &ListingRepo{db: db}
}

func (r *ListingRepo) GetByID(_ context.Context, id string) (*models.Listing, error) {
	var l models.Listing
	ok, err := r.db.get(listingsColl, id, &l)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, listingRepo.ErrListingNotFound
	}
	return &l, nil
}

func (r *ListingRepo) GetAll(ctx context.Context) ([]models.Listing, error) {
	return r.filter(ctx, func(models.Listing) bool { return true })
}

func (r *ListingRepo) ListByPartner(ctx context.Context, partnerID string) ([]models.Listing, error) {
	return r.filter(ctx, func(l models.Listing) bool { return l.PartnerID == partnerID })
}

func (r *ListingRepo) filter(ctx context.Context, keep func(models.Listing) bool) ([]models.Listing, error) {
	out := []models.Listing{}
	for _, id := range r.db.ids(listingsColl) {
		l, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		if keep(*l) {
			out = append(out, *l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NumID < out[j].NumID })
	return out, nil
}

func (r *ListingRepo) Create(_ context.Context, listing *models.Listing) error {
	now := time.Now()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	listing.Version = 1
	if listing.Dates == nil {
		listing.Dates = []models.ListDate{}
	}
	return r.db.put(listingsColl, listing.ID, listing)
}

func (r *ListingRepo) Replace(ctx context.Context, listing *models.Listing) error {
	stored, err := r.guard(ctx, listing.ID, listing.Version)
	if err != nil {
		return err
	}
	next := *listing
	next.NumID = stored.NumID
	next.PartnerID = stored.PartnerID
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = time.Now()
	next.Version = stored.Version + 1
	if err := r.db.put(listingsColl, next.ID, &next); err != nil {
		return err
	}
	listing.Version = next.Version
	listing.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *ListingRepo) ReplaceDates(ctx context.Context, id string, version int, dates []models.ListDate) error {
	stored, err := r.guard(ctx, id, version)
	if err != nil {
		return err
	}
	stored.Dates = dates
	stored.UpdatedAt = time.Now()
	stored.Version++
	return r.db.put(listingsColl, id, stored)
}

func (r *ListingRepo) guard(ctx context.Context, id string, version int) (*models.Listing, error) {
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.Version != version {
		return nil, listingRepo.ErrVersionConflict
	}
	return stored, nil
}

func (r *ListingRepo) Delete(_ context.Context, id string) error {
	if !r.db.remove(listingsColl, id) {
		return listingRepo.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepo) NextNumID(context.Context) (int64, error) {
	return r.db.next(listingsColl), nil
}
