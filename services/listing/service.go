package listing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"courtside/database"
	"courtside/database/repository"
	"courtside/models"
	"courtside/services/availability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListingService is the listing surface used by the HTTP layer.
type ListingService interface {
	Create(ctx context.Context, partnerID string, input models.ListingInput) (*models.Listing, error)
	Update(ctx context.Context, partnerID, listingID string, input models.ListingInput) (*models.Listing, error)
	Delete(ctx context.Context, partnerID, listingID string) error
	Get(ctx context.Context, id string) (*models.Listing, error)
	ListByPartner(ctx context.Context, partnerID string) ([]models.Listing, error)
	PartnerBookings(ctx context.Context, partnerID string) ([]models.BookedSlot, error)
	Query(ctx context.Context, sessionID string, c Criteria) (*QueryResult, error)
	Search(ctx context.Context, sessionID, q string) (*QueryResult, error)
}

// Service manages partner listings and the public listing queries.
type Service struct {
	listings  repository.ListingRepository
	partners  repository.PartnerRepository
	tx        database.Transactor
	snapshots SnapshotStore
	priceMode PriceMode
	loc       *time.Location
	logger    *zap.Logger
}

func NewService(
	listings repository.ListingRepository,
	partners repository.PartnerRepository,
	tx database.Transactor,
	snapshots SnapshotStore,
	priceMode PriceMode,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		listings:  listings,
		partners:  partners,
		tx:        tx,
		snapshots: snapshots,
		priceMode: priceMode,
		loc:       loc,
		logger:    logger,
	}
}

// Create builds the availability calendar from input and stores the listing,
// recording it on the partner in the same transaction.
func (s *Service) Create(ctx context.Context, partnerID string, input models.ListingInput) (*models.Listing, error) {
	dates, err := s.buildDates(input)
	if err != nil {
		return nil, err
	}

	l := &models.Listing{
		ID:          uuid.NewString(),
		PartnerID:   partnerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Location:    strings.TrimSpace(input.Location),
		Sport:       strings.TrimSpace(input.Sport),
		Categories:  normalizeCategories(input.Categories),
		Images:      input.Images,
		Dates:       dates,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		numID, err := s.listings.NextNumID(ctx)
		if err != nil {
			return err
		}
		l.NumID = numID
		if err := s.listings.Create(ctx, l); err != nil {
			return err
		}
		return s.partners.PushListing(ctx, partnerID, l.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Listing created",
		zap.String("listingID", l.ID), zap.String("partnerID", partnerID), zap.Int("days", len(dates)))
	return l, nil
}

// Update fully replaces the descriptive fields and the calendar. Bookings on
// slots that survive the edit are kept; dropping or repricing a booked slot is refused.
func (s *Service) Update(ctx context.Context, partnerID, listingID string, input models.ListingInput) (*models.Listing, error) {
	next, err := s.buildDates(input)
	if err != nil {
		return nil, err
	}

	var updated *models.Listing
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.owned(ctx, partnerID, listingID)
		if err != nil {
			return err
		}

		dates := availability.CloneDates(next)
		if dropped := availability.CarryOverBookings(current.Dates, dates); len(dropped) > 0 {
			return &BookedSlotRemovedError{Slots: dropped}
		}

		current.Name = strings.TrimSpace(input.Name)
		current.Description = input.Description
		current.Location = strings.TrimSpace(input.Location)
		current.Sport = strings.TrimSpace(input.Sport)
		current.Categories = normalizeCategories(input.Categories)
		current.Images = input.Images
		current.Dates = dates
		if err := s.listings.Replace(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Listing updated", zap.String("listingID", listingID), zap.Int("version", updated.Version))
	return updated, nil
}

// Delete removes the listing and its id from the owning partner.
func (s *Service) Delete(ctx context.Context, partnerID, listingID string) error {
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.owned(ctx, partnerID, listingID); err != nil {
			return err
		}
		if err := s.listings.Delete(ctx, listingID); err != nil {
			return err
		}
		return s.partners.PullListing(ctx, partnerID, listingID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Listing deleted", zap.String("listingID", listingID), zap.String("partnerID", partnerID))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

func (s *Service) ListByPartner(ctx context.Context, partnerID string) ([]models.Listing, error) {
	return s.listings.ListByPartner(ctx, partnerID)
}

// PartnerBookings flattens every booked slot across the partner's listings,
// ordered by date and start time.
func (s *Service) PartnerBookings(ctx context.Context, partnerID string) ([]models.BookedSlot, error) {
	listings, err := s.listings.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	out := []models.BookedSlot{}
	for _, l := range listings {
		out = append(out, availability.BookedSlots(l)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *Service) owned(ctx context.Context, partnerID, listingID string) (*models.Listing, error) {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.PartnerID != partnerID {
		return nil, ErrNotOwner
	}
	return l, nil
}

// buildDates turns the partner's date range and timings, or the default grid,
// into a validated calendar.
func (s *Service) buildDates(input models.ListingInput) ([]models.ListDate, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Sport) == "" || strings.TrimSpace(input.Location) == "" {
		return nil, fmt.Errorf("%w: name, sport and location are required", ErrInvalidInput)
	}

	var (
		templates []models.TimingRange
		err       error
	)
	if input.DefaultGrid != nil {
		templates, err = availability.DefaultGrid(input.DefaultGrid.IncrementMinutes, input.DefaultGrid.Price)
	} else {
		templates, err = availability.FromTemplates(input.Timings)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(templates) == 0 {
		return nil, ErrNoTimings
	}

	from, err := s.parseDay(input.DateRange.From)
	if err != nil {
		return nil, err
	}
	var to *time.Time
	if input.DateRange.To != "" {
		t, err := s.parseDay(input.DateRange.To)
		if err != nil {
			return nil, err
		}
		to = &t
	}

	dates, err := availability.GenerateDates(&from, to, templates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return dates, nil
}

func (s *Service) parseDay(v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, availability.ErrMissingStartDate)
	}
	t, err := availability.ParseDay(v, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return t, nil
}

func normalizeCategories(in []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, c := range in {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
