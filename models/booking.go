package models

// SlotRequest identifies one slot of one listing. Date accepts YYYY-MM-DD or RFC 3339.
type SlotRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// BookingRequestInput is the body of POST /api/bookings.
type BookingRequestInput struct {
	SlotRequest
	PaymentOption string `json:"paymentOption" binding:"required,oneof=cash card"`
}
