package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/database"
	"courtside/database/repository"
	listingRepo "courtside/database/repository/listing"
	userRepo "courtside/database/repository/user"
	"courtside/models"
	"courtside/services/availability"

	"go.uber.org/zap"
)

// Service is the default BookingService. Every mutation runs in one
// transaction covering the listing dates and the user's booking history.
type Service struct {
	listings    repository.ListingRepository
	users       repository.UserRepository
	tx          database.Transactor
	notifier    Notifier
	loc         *time.Location
	maxAttempts int
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(
	listings repository.ListingRepository,
	users repository.UserRepository,
	tx database.Transactor,
	notifier Notifier,
	loc *time.Location,
	maxAttempts int,
	logger *zap.Logger,
) *Service {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		listings:    listings,
		users:       users,
		tx:          tx,
		notifier:    notifier,
		loc:         loc,
		maxAttempts: maxAttempts,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *Service) Book(ctx context.Context, req BookRequest) (*Result, error) {
	if req.PaymentOption != models.PaymentCash && req.PaymentOption != models.PaymentCard {
		return nil, ErrInvalidPaymentOption
	}
	day, err := availability.ParseDay(req.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	var res *Result
	err = s.withRetry(ctx, req.ListingID, func(ctx context.Context) error {
		r, err := s.book(ctx, req, day)
		res = r
		return err
	})
	if err != nil {
		return nil, err
	}

	if res.Outcome == OutcomeBooked {
		s.logger.Info("Slot booked",
			zap.String("listingID", req.ListingID),
			zap.String("userID", req.UserID),
			zap.String("date", res.Booking.Date),
			zap.String("start", req.StartTime))
		s.notify(ctx, models.BookingEvent{
			Kind:    models.EventBooked,
			Listing: *res.Listing,
			UserID:  req.UserID,
			Booking: *res.Booking,
		})
	}
	return res, nil
}

func (s *Service) book(ctx context.Context, req BookRequest, day time.Time) (*Result, error) {
	listing, ref, miss, err := s.locate(ctx, req.ListingID, day, req.StartTime, req.EndTime)
	if err != nil || miss != nil {
		return miss, err
	}

	dates := availability.CloneDates(listing.Dates)
	if err := availability.ApplyBooking(dates, ref, req.UserID, req.PaymentOption); err != nil {
		if errors.Is(err, availability.ErrSlotTaken) {
			return conflict(ReasonSlotTaken), nil
		}
		return nil, err
	}
	if err := s.listings.ReplaceDates(ctx, listing.ID, listing.Version, dates); err != nil {
		return nil, err
	}

	slot := dates[ref.DateIndex].Timings[ref.TimingIndex]
	entry := models.Booking{
		ListingID: listing.ID,
		Date:      dates[ref.DateIndex].Date,
		Time: models.BookingTime{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Price:     slot.Price,
			Status:    models.BookingStatusConfirmed,
		},
		PaymentOption: req.PaymentOption,
		BookedAt:      s.now(),
	}
	if err := s.users.AppendBooking(ctx, req.UserID, entry); err != nil {
		return nil, fmt.Errorf("failed to record booking for user %s: %w", req.UserID, err)
	}

	listing.Dates = dates
	listing.Version++
	return &Result{Outcome: OutcomeBooked, Listing: listing, Booking: &entry}, nil
}

func (s *Service) Cancel(ctx context.Context, req CancelRequest) (*Result, error) {
	if req.ActorRole != RoleUser && req.ActorRole != RolePartner {
		return nil, ErrInvalidRole
	}
	day, err := availability.ParseDay(req.Date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	var (
		res    *Result
		holder string
	)
	err = s.withRetry(ctx, req.ListingID, func(ctx context.Context) error {
		r, h, err := s.cancel(ctx, req, day)
		res, holder = r, h
		return err
	})
	if err != nil {
		return nil, err
	}

	if res.Outcome == OutcomeCancelled {
		s.logger.Info("Booking cancelled",
			zap.String("listingID", req.ListingID),
			zap.String("holder", holder),
			zap.String("by", string(req.ActorRole)))
		s.notify(ctx, models.BookingEvent{
			Kind:        models.EventCancelled,
			Listing:     *res.Listing,
			UserID:      holder,
			Booking:     *res.Booking,
			CancelledBy: string(req.ActorRole),
		})
	}
	return res, nil
}

func (s *Service) cancel(ctx context.Context, req CancelRequest, day time.Time) (*Result, string, error) {
	listing, ref, miss, err := s.locate(ctx, req.ListingID, day, req.StartTime, req.EndTime)
	if err != nil || miss != nil {
		return miss, "", err
	}

	asOwner := false
	if req.ActorRole == RolePartner {
		if listing.PartnerID != req.ActorID {
			return conflict(ReasonNotOwner), "", nil
		}
		asOwner = true
	}

	dates := availability.CloneDates(listing.Dates)
	old := dates[ref.DateIndex].Timings[ref.TimingIndex]
	holder, err := availability.ClearBooking(dates, ref, req.ActorID, asOwner)
	switch {
	case errors.Is(err, availability.ErrNotBooked):
		return notFound(ReasonNotBooked), "", nil
	case errors.Is(err, availability.ErrNotHolder):
		return conflict(ReasonNotHolder), "", nil
	case err != nil:
		return nil, "", err
	}

	if err := s.listings.ReplaceDates(ctx, listing.ID, listing.Version, dates); err != nil {
		return nil, "", err
	}

	date := dates[ref.DateIndex].Date
	key := userRepo.BookingKey{ListingID: listing.ID, Date: date, StartTime: old.StartTime, EndTime: old.EndTime}
	err = s.users.SetBookingStatus(ctx, holder, key, models.BookingStatusCancelled)
	switch {
	case errors.Is(err, userRepo.ErrUserNotFound):
		// The account is gone; the slot is still released.
		s.logger.Warn("Cancelled slot holder has no user record",
			zap.String("listingID", listing.ID), zap.String("userID", holder))
	case err != nil:
		return nil, "", fmt.Errorf("failed to update booking history for user %s: %w", holder, err)
	}

	entry := models.Booking{
		ListingID: listing.ID,
		Date:      date,
		Time: models.BookingTime{
			StartTime: old.StartTime,
			EndTime:   old.EndTime,
			Price:     old.Price,
			Status:    models.BookingStatusCancelled,
		},
	}
	if old.Booking.PaymentOption != nil {
		entry.PaymentOption = *old.Booking.PaymentOption
	}

	listing.Dates = dates
	listing.Version++
	return &Result{Outcome: OutcomeCancelled, Listing: listing, Booking: &entry}, holder, nil
}

// locate loads the listing and finds the slot. A non-nil *Result means the
// listing, date or slot does not exist.
func (s *Service) locate(ctx context.Context, listingID string, day time.Time, start, end string) (*models.Listing, availability.SlotRef, *Result, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if errors.Is(err, listingRepo.ErrListingNotFound) {
		return nil, availability.SlotRef{}, notFound(ReasonListingNotFound), nil
	}
	if err != nil {
		return nil, availability.SlotRef{}, nil, err
	}

	ref, err := availability.FindSlot(listing.Dates, day, start, end)
	switch {
	case errors.Is(err, availability.ErrDateNotFound):
		return nil, ref, notFound(ReasonDateNotFound), nil
	case errors.Is(err, availability.ErrTimingNotFound):
		return nil, ref, notFound(ReasonSlotNotFound), nil
	case err != nil:
		return nil, ref, nil, err
	}
	return listing, ref, nil, nil
}

// withRetry reruns fn in a fresh transaction while the listing version keeps moving.
func (s *Service) withRetry(ctx context.Context, listingID string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.tx.WithTransaction(ctx, fn)
		if !errors.Is(err, listingRepo.ErrVersionConflict) {
			return err
		}
		s.logger.Warn("Listing changed during booking, retrying",
			zap.String("listingID", listingID), zap.Int("attempt", attempt))
	}
	return fmt.Errorf("%w: %v", ErrContention, err)
}

func (s *Service) notify(ctx context.Context, ev models.BookingEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyBooking(ctx, ev); err != nil {
		s.logger.Error("Failed to send booking notification",
			zap.String("kind", ev.Kind),
			zap.String("listingID", ev.Listing.ID),
			zap.Error(err))
	}
}
