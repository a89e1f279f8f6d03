package availability

import (
	"errors"

	"courtside/models"
)

var (
	ErrSlotTaken  = errors.New("slot is already booked")
	ErrNotBooked  = errors.New("slot is not booked")
	ErrNotHolder  = errors.New("slot is booked by another user")
	ErrInvalidRef = errors.New("slot reference out of range")
)

// CloneDates deep-copies dates so a mutation can be prepared without touching the original.
func CloneDates(dates []models.ListDate) []models.ListDate {
	if dates == nil {
		return nil
	}
	out := make([]models.ListDate, len(dates))
	for i, d := range dates {
		timings := make([]models.TimingRange, len(d.Timings))
		for j, t := range d.Timings {
			t.Booking = cloneBooking(t.Booking)
			timings[j] = t
		}
		out[i] = models.ListDate{Date: d.Date, Timings: timings}
	}
	return out
}

func cloneBooking(b models.SlotBooking) models.SlotBooking {
	return models.SlotBooking{
		UserID:        cloneString(b.UserID),
		Status:        cloneString(b.Status),
		PaymentOption: cloneString(b.PaymentOption),
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (r SlotRef) timing(dates []models.ListDate) (*models.TimingRange, error) {
	if r.DateIndex < 0 || r.DateIndex >= len(dates) {
		return nil, ErrInvalidRef
	}
	timings := dates[r.DateIndex].Timings
	if r.TimingIndex < 0 || r.TimingIndex >= len(timings) {
		return nil, ErrInvalidRef
	}
	return &timings[r.TimingIndex], nil
}

// ApplyBooking marks the referenced slot as held by userID. Only that slot changes.
func ApplyBooking(dates []models.ListDate, ref SlotRef, userID, paymentOption string) error {
	t, err := ref.timing(dates)
	if err != nil {
		return err
	}
	if t.Booking.IsBooked() {
		return ErrSlotTaken
	}
	status := models.BookingStatusConfirmed
	t.Booking = models.SlotBooking{
		UserID:        &userID,
		Status:        &status,
		PaymentOption: &paymentOption,
	}
	return nil
}

// ClearBooking returns the referenced slot to the unbooked state. Unless asOwner is
// set, only the holding user may clear it.
func ClearBooking(dates []models.ListDate, ref SlotRef, userID string, asOwner bool) (string, error) {
	t, err := ref.timing(dates)
	if err != nil {
		return "", err
	}
	if !t.Booking.IsBooked() {
		return "", ErrNotBooked
	}
	if !asOwner && !t.Booking.BookedBy(userID) {
		return "", ErrNotHolder
	}
	holder := *t.Booking.UserID
	t.Booking = models.SlotBooking{}
	return holder, nil
}

// CarryOverBookings copies the booking state of every booked slot in prev onto the slot
// with the same date, start, end and price in next. Booked slots with no such
// counterpart are returned; a booked slot's price is fixed once it is booked.
func CarryOverBookings(prev, next []models.ListDate) []models.BookedSlot {
	index := make(map[string]int, len(next))
	for i, d := range next {
		index[d.Date] = i
	}

	var dropped []models.BookedSlot
	for _, d := range prev {
		for _, t := range d.Timings {
			if !t.Booking.IsBooked() {
				continue
			}
			if placeBooking(next, index, d.Date, t) {
				continue
			}
			dropped = append(dropped, bookedSlot("", "", d.Date, t))
		}
	}
	return dropped
}

func placeBooking(next []models.ListDate, index map[string]int, date string, src models.TimingRange) bool {
	di, ok := index[date]
	if !ok {
		return false
	}
	for ti := range next[di].Timings {
		dst := &next[di].Timings[ti]
		if dst.StartTime == src.StartTime && dst.EndTime == src.EndTime {
			if dst.Price != src.Price {
				return false
			}
			dst.Booking = cloneBooking(src.Booking)
			return true
		}
	}
	return false
}

// BookedSlots flattens every booked timing of a listing.
func BookedSlots(l models.Listing) []models.BookedSlot {
	var out []models.BookedSlot
	for _, d := range l.Dates {
		for _, t := range d.Timings {
			if t.Booking.IsBooked() {
				out = append(out, bookedSlot(l.ID, l.Name, d.Date, t))
			}
		}
	}
	return out
}

func bookedSlot(listingID, name, date string, t models.TimingRange) models.BookedSlot {
	s := models.BookedSlot{
		ListingID:   listingID,
		ListingName: name,
		Date:        date,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		Price:       t.Price,
	}
	if t.Booking.UserID != nil {
		s.UserID = *t.Booking.UserID
	}
	if t.Booking.Status != nil {
		s.Status = *t.Booking.Status
	}
	if t.Booking.PaymentOption != nil {
		s.PaymentOption = *t.Booking.PaymentOption
	}
	return s
}
