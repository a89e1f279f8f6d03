package listing

import (
	"errors"
	"fmt"
	"strings"

	"courtside/models"
)

var (
	ErrNotOwner      = errors.New("listing belongs to another partner")
	ErrInvalidInput  = errors.New("invalid listing")
	ErrNoTimings     = errors.New("listing needs at least one timing or a default grid")
	ErrBookedRemoved = errors.New("edit would remove or reprice booked slots")
)

// BookedSlotRemovedError lists the booked slots an edit would have dropped or repriced.
type BookedSlotRemovedError struct {
	Slots []models.BookedSlot
}

func (e *BookedSlotRemovedError) Error() string {
	parts := make([]string, 0, len(e.Slots))
	for _, s := range e.Slots {
		parts = append(parts, fmt.Sprintf("%s %s-%s", s.Date, s.StartTime, s.EndTime))
	}
	return fmt.Sprintf("%s: %s", ErrBookedRemoved, strings.Join(parts, ", "))
}

func (e *BookedSlotRemovedError) Unwrap() error { return ErrBookedRemoved }
