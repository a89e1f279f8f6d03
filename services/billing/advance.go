package billing

import (
	"time"

	"courtside/models"
)

// Change describes what Advance did to a partner's billing dates.
type Change int

const (
	Unchanged Change = iota
	Initialized
	Advanced
)

func (c Change) String() string {
	switch c {
	case Initialized:
		return "initialized"
	case Advanced:
		return "advanced"
	}
	return "unchanged"
}

// Advance decides the next billing dates for one partner.
//
// Missing dates start a cycle at now. Dates whose nextBillingAt falls on now's
// calendar day in loc move latestBilledAt to the old nextBillingAt and schedule
// the next cycle one month from now. Anything else, including a nextBillingAt
// already in the past, is left alone, so a second run on the same day is a no-op.
func Advance(current *models.BillingDates, now time.Time, loc *time.Location) (models.BillingDates, Change) {
	if loc == nil {
		loc = time.UTC
	}
	if current == nil {
		return models.BillingDates{
			LatestBilledAt: now,
			NextBillingAt:  now.AddDate(0, 1, 0),
		}, Initialized
	}
	if !due(current.NextBillingAt, now, loc) {
		return *current, Unchanged
	}
	return models.BillingDates{
		LatestBilledAt: current.NextBillingAt,
		NextBillingAt:  now.AddDate(0, 1, 0),
	}, Advanced
}

// due compares calendar days in loc; the time of day is ignored.
func due(next, now time.Time, loc *time.Location) bool {
	return calendarDay(next, loc).Equal(calendarDay(now, loc))
}

func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
