package booking

import (
	"context"

	"courtside/models"
)

// Outcome is the explicit result of a booking mutation.
type Outcome string

const (
	OutcomeBooked    Outcome = "booked"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeConflict  Outcome = "conflict"
)

// Reasons attached to not_found and conflict outcomes.
const (
	ReasonListingNotFound = "listing_not_found"
	ReasonDateNotFound    = "date_not_found"
	ReasonSlotNotFound    = "slot_not_found"
	ReasonNotBooked       = "not_booked"
	ReasonSlotTaken       = "slot_taken"
	ReasonNotHolder       = "not_holder"
	ReasonNotOwner        = "not_owner"
)

// Role of whoever asks for a cancellation.
type Role string

const (
	RoleUser    Role = "user"
	RolePartner Role = "partner"
)

type BookRequest struct {
	ListingID     string
	Date          string
	StartTime     string
	EndTime       string
	UserID        string
	PaymentOption string
}

type CancelRequest struct {
	ListingID string
	Date      string
	StartTime string
	EndTime   string
	ActorID   string
	ActorRole Role
}

// Result carries the outcome and, when something changed, the updated listing
// and the user-history entry that mirrors the slot.
type Result struct {
	Outcome Outcome         `json:"outcome"`
	Reason  string          `json:"reason,omitempty"`
	Listing *models.Listing `json:"listing,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
}

// Notifier is told about committed changes. Its errors are logged only.
type Notifier interface {
	NotifyBooking(ctx context.Context, ev models.BookingEvent) error
}

// BookingService books and cancels individual listing slots.
type BookingService interface {
	Book(ctx context.Context, req BookRequest) (*Result, error)
	Cancel(ctx context.Context, req CancelRequest) (*Result, error)
}

func notFound(reason string) *Result { return &Result{Outcome: OutcomeNotFound, Reason: reason} }
func conflict(reason string) *Result { return &Result{Outcome: OutcomeConflict, Reason: reason} }
