package memory

import (
	"context"
	"time"

	partnerRepo "courtside/database/repository/partner"
	"courtside/models"

	"go.mongodb.org/mongo-driver/bson"
)

const partnersColl = "partners"

// PartnerRepo implements partnerRepo.PartnerRepository in memory.
type PartnerRepo struct {
	db *DB
}

func (db *DB) Partners() *PartnerRepo {
	return &PartnerRepo{db: db}
}

func (r *PartnerRepo) GetByID(_ context.Context, id string) (*models.Partner, error) {
	var p models.Partner
	ok, err := r.db.get(partnersColl, id, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, partnerRepo.ErrPartnerNotFound
	}
	if p.Listings == nil {
		p.Listings = []string{}
	}
	return &p, nil
}

func (r *PartnerRepo) GetAll(ctx context.Context) ([]models.Partner, error) {
	out := []models.Partner{}
	for _, id := range r.db.ids(partnersColl) {
		p, err := r.GetByID(ctx, id)
		if err != nil {
			continue
		}
		p.Payment = nil
		out = append(out, *p)
	}
	return out, nil
}

func (r *PartnerRepo) Create(_ context.Context, partner *models.Partner) error {
	if r.db.has(partnersColl, partner.ID) {
		return partnerRepo.ErrPartnerExists
	}
	now := time.Now()
	partner.CreatedAt = now
	partner.UpdatedAt = now
	if partner.Listings == nil {
		partner.Listings = []string{}
	}
	return r.db.put(partnersColl, partner.ID, partner)
}

// UpdateSet supports top-level keys only.
func (r *PartnerRepo) UpdateSet(ctx context.Context, id string, updateDoc bson.M) error {
	return r.mutate(ctx, id, func(p *models.Partner) error {
		return applySet(p, updateDoc)
	})
}

func (r *PartnerRepo) PushListing(ctx context.Context, id, listingID string) error {
	return r.mutate(ctx, id, func(p *models.Partner) error {
		for _, l := range p.Listings {
			if l == listingID {
				return nil
			}
		}
		p.Listings = append(p.Listings, listingID)
		return nil
	})
}

func (r *PartnerRepo) PullListing(ctx context.Context, id, listingID string) error {
	return r.mutate(ctx, id, func(p *models.Partner) error {
		kept := p.Listings[:0]
		for _, l := range p.Listings {
			if l != listingID {
				kept = append(kept, l)
			}
		}
		p.Listings = kept
		return nil
	})
}

func (r *PartnerRepo) SetBillingDates(ctx context.Context, id string, dates models.BillingDates) error {
	return r.mutate(ctx, id, func(p *models.Partner) error {
		p.BillingDates = &dates
		return nil
	})
}

func (r *PartnerRepo) SetPayment(ctx context.Context, id string, payment models.PaymentOnFile) error {
	return r.mutate(ctx, id, func(p *models.Partner) error {
		p.Payment = &payment
		return nil
	})
}

func (r *PartnerRepo) mutate(ctx context.Context, id string, fn func(*models.Partner) error) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	return r.db.put(partnersColl, id, p)
}

func (r *PartnerRepo) Delete(_ context.Context, id string) error {
	if !r.db.remove(partnersColl, id) {
		return partnerRepo.ErrPartnerNotFound
	}
	return nil
}

// applySet round-trips doc through BSON to overwrite top-level fields.
func applySet(doc interface{}, set bson.M) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range set {
		m[k] = v
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, doc)
}
