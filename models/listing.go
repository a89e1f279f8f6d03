package models

import "time"

// Slot booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Payment options accepted at booking time.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Image is one uploaded listing picture.
type Image struct {
	URL          string `bson:"url" json:"url"`
	ThumbnailURL string `bson:"thumbnailUrl" json:"thumbnailUrl"`
	PublicID     string `bson:"publicId,omitempty" json:"publicId,omitempty"`
}

// SlotBooking is the booking state embedded in every timing range.
// All three fields are nil while the slot is unbooked.
type SlotBooking struct {
	UserID        *string `bson:"userID" json:"userID"`
	Status        *string `bson:"status" json:"status"`
	PaymentOption *string `bson:"paymentOption" json:"paymentOption"`
}

// IsBooked reports whether a user holds the slot.
func (b SlotBooking) IsBooked() bool {
	return b.UserID != nil && *b.UserID != ""
}

// BookedBy reports whether userID holds the slot.
func (b SlotBooking) BookedBy(userID string) bool {
	return b.IsBooked() && *b.UserID == userID
}

// TimingRange is a priced, bookable interval within one calendar day.
type TimingRange struct {
	StartTime string      `bson:"startTime" json:"startTime"` // HH:MM
	EndTime   string      `bson:"endTime" json:"endTime"`     // HH:MM
	Price     int         `bson:"price" json:"price"`
	Booking   SlotBooking `bson:"booking" json:"booking"`
}

// ListDate is one calendar day of a listing's availability.
type ListDate struct {
	Date    string        `bson:"date" json:"date"` // YYYY-MM-DD
	Timings []TimingRange `bson:"timings" json:"timings"`
}

// Listing is a bookable venue offering owned by a partner.
type Listing struct {
	ID          string     `bson:"id" json:"id"`
	NumID       int64      `bson:"numId" json:"numId"`
	PartnerID   string     `bson:"partnerId" json:"partnerId"`
	Name        string     `bson:"name" json:"name"`
	Description string     `bson:"description" json:"description"`
	Location    string     `bson:"location" json:"location"`
	Sport       string     `bson:"sport" json:"sport"`
	Categories  []string   `bson:"categories" json:"categories"`
	Images      []Image    `bson:"images" json:"images"`
	Dates       []ListDate `bson:"dates" json:"dates"`
	Version     int        `bson:"version" json:"version"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// DateRange is the inclusive active range of a listing. To may be empty for a single day.
type DateRange struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to,omitempty"`
}

// DefaultGridRequest asks for a full day of back-to-back slots.
type DefaultGridRequest struct {
	IncrementMinutes int `json:"incrementMinutes" binding:"required"`
	Price            int `json:"price" binding:"gte=0"`
}

// TimingTemplate is a recurring slot entered by a partner.
type TimingTemplate struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	Price     int    `json:"price" binding:"gte=0"`
}

// ListingInput is the payload for creating or fully replacing a listing.
type ListingInput struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Location    string              `json:"location" binding:"required"`
	Sport       string              `json:"sport" binding:"required"`
	Categories  []string            `json:"categories"`
	Images      []Image             `json:"images"`
	DateRange   DateRange           `json:"dateRange" binding:"required"`
	Timings     []TimingTemplate    `json:"timings"`
	DefaultGrid *DefaultGridRequest `json:"defaultGrid,omitempty"`
}

// BookedSlot flattens one booked timing for partner dashboards.
type BookedSlot struct {
	ListingID     string `json:"listingId"`
	ListingName   string `json:"listingName"`
	Date          string `json:"date"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Price         int    `json:"price"`
	UserID        string `json:"userId"`
	Status        string `json:"status"`
	PaymentOption string `json:"paymentOption"`
}
