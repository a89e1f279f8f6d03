package availability

import (
	"errors"
	"fmt"
	"sort"

	"courtside/models"
)

var (
	ErrEmptyTiming       = errors.New("start time must be before end time")
	ErrOverlappingTiming = errors.New("timing overlaps an existing timing")
	ErrNegativePrice     = errors.New("price must not be negative")
)

type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && s.end > o.start
}

func parseSpan(t models.TimingRange) (span, error) {
	start, err := ParseClock(t.StartTime)
	if err != nil {
		return span{}, err
	}
	end, err := ParseClock(t.EndTime)
	if err != nil {
		return span{}, err
	}
	if start >= end {
		return span{}, fmt.Errorf("%w: %s-%s", ErrEmptyTiming, t.StartTime, t.EndTime)
	}
	return span{start: start, end: end}, nil
}

// AddTiming appends candidate to existing after checking it is well formed and
// does not overlap any range already present.
func AddTiming(existing []models.TimingRange, candidate models.TimingRange) ([]models.TimingRange, error) {
	if candidate.Price < 0 {
		return nil, ErrNegativePrice
	}
	c, err := parseSpan(candidate)
	if err != nil {
		return nil, err
	}
	for _, t := range existing {
		s, err := parseSpan(t)
		if err != nil {
			return nil, err
		}
		if c.overlaps(s) {
			return nil, fmt.Errorf("%w: %s-%s overlaps %s-%s",
				ErrOverlappingTiming, candidate.StartTime, candidate.EndTime, t.StartTime, t.EndTime)
		}
	}
	out := make([]models.TimingRange, 0, len(existing)+1)
	out = append(out, existing...)
	return append(out, candidate), nil
}

// ValidateTimings checks a whole template set the same way AddTiming checks one entry.
func ValidateTimings(timings []models.TimingRange) error {
	var acc []models.TimingRange
	for _, t := range timings {
		next, err := AddTiming(acc, t)
		if err != nil {
			return err
		}
		acc = next
	}
	return nil
}

// FromTemplates turns partner input into unbooked timing ranges, rejecting overlaps.
func FromTemplates(templates []models.TimingTemplate) ([]models.TimingRange, error) {
	var out []models.TimingRange
	for _, tpl := range templates {
		next, err := AddTiming(out, models.TimingRange{
			StartTime: tpl.StartTime,
			EndTime:   tpl.EndTime,
			Price:     tpl.Price,
		})
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

func sortTimings(timings []models.TimingRange) {
	sort.SliceStable(timings, func(i, j int) bool {
		a, _ := ParseClock(timings[i].StartTime)
		b, _ := ParseClock(timings[j].StartTime)
		return a < b
	})
}
