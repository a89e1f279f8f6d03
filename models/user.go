// models/user.go
package models

import "time"

// BookingTime is the slot snapshot kept in a user's booking history.
type BookingTime struct {
	StartTime string `bson:"startTime" json:"startTime"`
	EndTime   string `bson:"endTime" json:"endTime"`
	Price     int    `bson:"price" json:"price"`
	Status    string `bson:"status" json:"status"`
}

// Booking mirrors one slot the user holds on some listing.
type Booking struct {
	ListingID     string      `bson:"listingId" json:"listingId"`
	Date          string      `bson:"date" json:"date"`
	Time          BookingTime `bson:"time" json:"time"`
	PaymentOption string      `bson:"paymentOption" json:"paymentOption"`
	BookedAt      time.Time   `bson:"bookedAt" json:"bookedAt"`
}

// Matches reports whether b mirrors the (listing, date, start, end) slot.
func (b Booking) Matches(listingID, date, start, end string) bool {
	return b.ListingID == listingID && b.Date == date && b.Time.StartTime == start && b.Time.EndTime == end
}

// User is an end-user account, keyed by its identity-provider uid.
type User struct {
	ID                string    `bson:"id" json:"id"`
	FirstName         string    `bson:"firstName" json:"firstName"`
	LastName          string    `bson:"lastName" json:"lastName"`
	Email             string    `bson:"email" json:"email"`
	PhoneNumber       string    `bson:"phoneNumber" json:"phoneNumber"`
	PreferredEmirate  string    `bson:"preferredEmirate" json:"preferredEmirate"`
	PreferredDistrict string    `bson:"preferredDistrict" json:"preferredDistrict"`
	EmailSubscription bool      `bson:"emailSubscription" json:"emailSubscription"`
	Bookings          []Booking `bson:"bookings" json:"bookings"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserRegistration is the sign-up payload for end users.
type UserRegistration struct {
	FirstName         string `json:"firstName" binding:"required"`
	LastName          string `json:"lastName"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=8"`
	PhoneNumber       string `json:"phoneNumber"`
	PreferredEmirate  string `json:"preferredEmirate"`
	PreferredDistrict string `json:"preferredDistrict"`
	EmailSubscription bool   `json:"emailSubscription"`
}

// UserUpdate is a patch of the user profile; nil fields are left alone.
type UserUpdate struct {
	FirstName         *string `json:"firstName"`
	LastName          *string `json:"lastName"`
	PhoneNumber       *string `json:"phoneNumber"`
	PreferredEmirate  *string `json:"preferredEmirate"`
	PreferredDistrict *string `json:"preferredDistrict"`
	EmailSubscription *bool   `json:"emailSubscription"`
}
