package models

// EmailPayload is the queued unit of outgoing mail.
type EmailPayload struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	HTML    string `json:"html" binding:"required"`
	ReplyTo string `json:"replyTo,omitempty"`
}

// ContactMessage is a contact-form submission.
type ContactMessage struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Booking event kinds.
const (
	EventBooked    = "booked"
	EventCancelled = "cancelled"
)

// BookingEvent is emitted once a booking or cancellation has committed.
type BookingEvent struct {
	Kind    string
	Listing Listing
	UserID  string
	Booking Booking
	// CancelledBy is "user" or "partner" for cancellations.
	CancelledBy string
}
