package handlers

import (
	"errors"
	"net/http"

	listingRepo "courtside/database/repository/listing"
	partnerRepo "courtside/database/repository/partner"
	userRepo "courtside/database/repository/user"
	"courtside/services/availability"
	"courtside/services/billing"
	"courtside/services/booking"
	"courtside/services/identity"
	"courtside/services/listing"
	"courtside/services/partner"
	"courtside/services/user"
	"courtside/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{listingRepo.ErrListingNotFound, http.StatusNotFound, "Listing not found"},
	{userRepo.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{partnerRepo.ErrPartnerNotFound, http.StatusNotFound, "Partner not found"},
	{userRepo.ErrUserExists, http.StatusConflict, "User already exists"},
	{partnerRepo.ErrPartnerExists, http.StatusConflict, "Partner already exists"},

	{listing.ErrNotOwner, http.StatusForbidden, "You do not own this listing"},
	{listing.ErrBookedRemoved, http.StatusConflict, "This change would remove or reprice booked slots"},
	{listing.ErrNoTimings, http.StatusBadRequest, "Add at least one timing or choose a default grid"},
	{listing.ErrInvalidInput, http.StatusBadRequest, "Invalid listing"},
	{availability.ErrInvalidClock, http.StatusBadRequest, "Times must be in HH:MM format"},

	{booking.ErrInvalidPaymentOption, http.StatusBadRequest, "Payment option must be cash or card"},
	{booking.ErrInvalidDate, http.StatusBadRequest, "Invalid date"},
	{booking.ErrInvalidRole, http.StatusForbidden, "This account cannot cancel bookings"},
	{booking.ErrContention, http.StatusServiceUnavailable, "The listing is busy, please try again"},
	{listingRepo.ErrVersionConflict, http.StatusConflict, "The listing changed while saving, please retry"},

	{billing.ErrRunInProgress, http.StatusConflict, "A billing run is already in progress"},

	{partner.ErrNothingToUpdate, http.StatusBadRequest, "No fields to update"},
	{user.ErrNothingToUpdate, http.StatusBadRequest, "No fields to update"},
	{partner.ErrPaymentNotSet, http.StatusNotFound, "No payment method on file"},
	{partner.ErrWrongPassword, http.StatusUnauthorized, "Incorrect password"},
	{partner.ErrReauthRequired, http.StatusUnauthorized, "Please confirm your password again"},
	{partner.ErrNotConfigured, http.StatusServiceUnavailable, "Payment storage is not available"},
}

var identityStatus = []struct {
	err    error
	status int
}{
	{identity.ErrEmailExists, http.StatusConflict},
	{identity.ErrAccountMissing, http.StatusNotFound},
	{identity.ErrInvalidToken, http.StatusUnauthorized},
	{identity.ErrInvalidEmail, http.StatusBadRequest},
	{identity.ErrDisabled, http.StatusForbidden},
}

// statusFor maps a service error to its HTTP status and public message.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	for _, m := range identityStatus {
		if errors.Is(err, m.err) {
			return m.status, identity.Message(err)
		}
	}
	return http.StatusInternalServerError, "Internal Server Error"
}

// respondError writes err as a JSON error. Details are withheld for 5xx.
func respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	details := err.Error()
	if status >= http.StatusInternalServerError {
		getLogger(c).Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		details = ""
	}
	utils.JSONError(c, status, message, details)
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}
