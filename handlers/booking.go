package handlers

import (
	"net/http"

	"courtside/middleware"
	"courtside/models"
	"courtside/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler books and cancels slots.
type BookingHandler struct {
	Bookings booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: svc}
}

var outcomeStatus = map[booking.Outcome]int{
	booking.OutcomeBooked:    http.StatusCreated,
	booking.OutcomeCancelled: http.StatusOK,
	booking.OutcomeNotFound:  http.StatusNotFound,
	booking.OutcomeConflict:  http.StatusConflict,
}

func writeResult(c *gin.Context, res *booking.Result) {
	status, ok := outcomeStatus[res.Outcome]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

// BookSlot handles POST /api/bookings.
func (h *BookingHandler) BookSlot(c *gin.Context) {
	var in models.BookingRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Bookings.Book(c.Request.Context(), booking.BookRequest{
		ListingID:     in.ListingID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		UserID:        callerID(c),
		PaymentOption: in.PaymentOption,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Outcome == booking.OutcomeBooked {
		getLogger(c).Info("Slot booked",
			zap.String("listingID", in.ListingID),
			zap.String("date", in.Date),
			zap.String("userID", callerID(c)))
	}
	writeResult(c, res)
}

// CancelSlot handles POST /api/bookings/cancel for users and partners.
func (h *BookingHandler) CancelSlot(c *gin.Context) {
	var in models.SlotRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Bookings.Cancel(c.Request.Context(), booking.CancelRequest{
		ListingID: in.ListingID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		ActorID:   callerID(c),
		ActorRole: booking.Role(c.GetString(middleware.CtxRole)),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	writeResult(c, res)
}
