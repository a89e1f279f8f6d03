package availability

import (
	"errors"
	"fmt"
	"time"

	"courtside/models"
)

// MaxRangeDays caps how many calendar days a single listing may carry.
const MaxRangeDays = 366

var (
	ErrMissingStartDate = errors.New("date range start is required")
	ErrInvalidDateRange = errors.New("date range end is before its start")
	ErrDateRangeTooLong = fmt.Errorf("date range longer than %d days", MaxRangeDays)
	ErrInvalidIncrement = errors.New("increment must be 30, 60, 120 or 180 minutes")
)

// GridIncrements are the increments accepted by DefaultGrid.
var GridIncrements = []int{30, 60, 120, 180}

// GenerateDates expands templates onto every calendar day of [from, to].
// A nil to means a single day. Every day receives its own copy of the templates
// with the booking state reset, so a booking on one day never touches another.
func GenerateDates(from, to *time.Time, templates []models.TimingRange) ([]models.ListDate, error) {
	if from == nil {
		return nil, ErrMissingStartDate
	}
	start := midnight(*from)
	end := start
	if to != nil {
		end = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, start.Location())
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxRangeDays {
		return nil, ErrDateRangeTooLong
	}

	var dates []models.ListDate
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, models.ListDate{
			Date:    FormatDay(d),
			Timings: resetTimings(templates),
		})
	}
	return dates, nil
}

// DefaultGrid synthesizes back-to-back slots covering 00:00 to 23:59.
// The final slot is clipped to end at 23:59.
func DefaultGrid(incrementMinutes, price int) ([]models.TimingRange, error) {
	if !validIncrement(incrementMinutes) {
		return nil, ErrInvalidIncrement
	}
	if price < 0 {
		return nil, ErrNegativePrice
	}
	const lastMinute = minutesPerDay - 1

	var timings []models.TimingRange
	for start := 0; start < lastMinute; start += incrementMinutes {
		end := start + incrementMinutes
		if end > lastMinute {
			end = lastMinute
		}
		timings = append(timings, models.TimingRange{
			StartTime: FormatClock(start),
			EndTime:   FormatClock(end),
			Price:     price,
		})
	}
	return timings, nil
}

func validIncrement(n int) bool {
	for _, inc := range GridIncrements {
		if n == inc {
			return true
		}
	}
	return false
}

func resetTimings(templates []models.TimingRange) []models.TimingRange {
	out := make([]models.TimingRange, len(templates))
	for i, t := range templates {
		out[i] = models.TimingRange{
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
			Price:     t.Price,
		}
	}
	sortTimings(out)
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
