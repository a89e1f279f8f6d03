package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	listingRepo "courtside/database/repository/listing"
	"courtside/models"
	"courtside/services/billing"
	"courtside/services/booking"
	"courtside/services/identity"
	"courtside/services/listing"
	"courtside/services/partner"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"wrapped not found", fmt.Errorf("loading: %w", listingRepo.ErrListingNotFound), http.StatusNotFound},
		{"not owner", listing.ErrNotOwner, http.StatusForbidden},
		{"invalid listing", fmt.Errorf("%w: bad range", listing.ErrInvalidInput), http.StatusBadRequest},
		{"booked removed", &listing.BookedSlotRemovedError{Slots: []models.BookedSlot{{Date: "2025-06-01"}}}, http.StatusConflict},
		{"payment option", booking.ErrInvalidPaymentOption, http.StatusBadRequest},
		{"contention", booking.ErrContention, http.StatusServiceUnavailable},
		{"billing busy", billing.ErrRunInProgress, http.StatusConflict},
		{"wrong password", partner.ErrWrongPassword, http.StatusUnauthorized},
		{"identity email", identity.ErrEmailExists, http.StatusConflict},
		{"identity token", identity.ErrInvalidToken, http.StatusUnauthorized},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := statusFor(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusFor_IdentityMessages(t *testing.T) {
	_, msg := statusFor(fmt.Errorf("create: %w", identity.ErrEmailExists))
	assert.Equal(t, identity.Message(identity.ErrEmailExists), msg)

	_, msg = statusFor(errors.New("boom"))
	assert.Equal(t, "Internal Server Error", msg)
}
