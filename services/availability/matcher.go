package availability

import (
	"errors"
	"time"

	"courtside/models"
)

var (
	ErrDateNotFound   = errors.New("listing has no availability on that date")
	ErrTimingNotFound = errors.New("no timing matches the requested start and end")
)

// SlotRef addresses one timing inside a listing's dates.
type SlotRef struct {
	DateIndex   int
	TimingIndex int
}

// FindDate returns the index of the ListDate on the same calendar day as target.
// Stored dates that fail to parse never match.
func FindDate(dates []models.ListDate, target time.Time) (int, bool) {
	for i, d := range dates {
		day, err := time.ParseInLocation(DateLayout, d.Date, target.Location())
		if err != nil {
			continue
		}
		if SameDay(day, target) {
			return i, true
		}
	}
	return -1, false
}

// FindSlot locates the timing with exactly this start and end on target's calendar day.
func FindSlot(dates []models.ListDate, target time.Time, startTime, endTime string) (SlotRef, error) {
	di, ok := FindDate(dates, target)
	if !ok {
		return SlotRef{}, ErrDateNotFound
	}
	for ti, t := range dates[di].Timings {
		if t.StartTime == startTime && t.EndTime == endTime {
			return SlotRef{DateIndex: di, TimingIndex: ti}, nil
		}
	}
	return SlotRef{}, ErrTimingNotFound
}
