package listing

import (
	"fmt"
	"strings"

	"courtside/models"
)

// PriceMode selects how MinPrice and MaxPrice combine.
type PriceMode string

const (
	// PriceJoint keeps listings with a slot priced inside [min, max].
	PriceJoint PriceMode = "joint"
	// PriceLegacy tests only min when it is set, otherwise only max.
	PriceLegacy PriceMode = "legacy"
)

// ParsePriceMode accepts "" as PriceJoint.
func ParsePriceMode(s string) (PriceMode, error) {
	switch PriceMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriceJoint:
		return PriceJoint, nil
	case PriceLegacy:
		return PriceLegacy, nil
	}
	return "", fmt.Errorf("unknown price mode %q", s)
}

// Criteria are the optional listing predicates. Zero values do not filter.
type Criteria struct {
	Sport      string
	Emirate    string
	City       string
	Date       string // YYYY-MM-DD
	MinPrice   *int
	MaxPrice   *int
	Categories []string
}

// IsEmpty reports whether no predicate is set.
func (c Criteria) IsEmpty() bool {
	return c.Sport == "" && c.Emirate == "" && c.City == "" && c.Date == "" &&
		c.MinPrice == nil && c.MaxPrice == nil && len(c.Categories) == 0
}

type predicate func(models.Listing) bool

// Filter keeps the listings that satisfy every predicate set in c.
func Filter(listings []models.Listing, c Criteria, mode PriceMode) []models.Listing {
	preds := c.predicates(mode)
	out := []models.Listing{}
	for _, l := range listings {
		if matchesAll(l, preds) {
			out = append(out, l)
		}
	}
	return out
}

func matchesAll(l models.Listing, preds []predicate) bool {
	for _, p := range preds {
		if !p(l) {
			return false
		}
	}
	return true
}

func (c Criteria) predicates(mode PriceMode) []predicate {
	var preds []predicate
	if c.Sport != "" {
		preds = append(preds, fieldEquals(c.Sport, func(l models.Listing) string { return l.Sport }))
	}
	if c.Emirate != "" {
		preds = append(preds, fieldEquals(c.Emirate, func(l models.Listing) string { return l.Location }))
	}
	if c.City != "" {
		preds = append(preds, fieldEquals(c.City, func(l models.Listing) string { return l.Location }))
	}
	if c.Date != "" {
		preds = append(preds, hasDate(c.Date))
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		preds = append(preds, hasSlotPriced(priceTest(c.MinPrice, c.MaxPrice, mode)))
	}
	if len(c.Categories) > 0 {
		preds = append(preds, inCategories(c.Categories))
	}
	return preds
}

func fieldEquals(want string, field func(models.Listing) string) predicate {
	want = strings.TrimSpace(want)
	return func(l models.Listing) bool {
		return strings.EqualFold(strings.TrimSpace(field(l)), want)
	}
}

func hasDate(date string) predicate {
	return func(l models.Listing) bool {
		for _, d := range l.Dates {
			if d.Date == date {
				return true
			}
		}
		return false
	}
}

func priceTest(min, max *int, mode PriceMode) func(int) bool {
	if mode == PriceLegacy {
		if min != nil {
			return func(p int) bool { return p >= *min }
		}
		return func(p int) bool { return p <= *max }
	}
	return func(p int) bool {
		if min != nil && p < *min {
			return false
		}
		if max != nil && p > *max {
			return false
		}
		return true
	}
}

func hasSlotPriced(ok func(int) bool) predicate {
	return func(l models.Listing) bool {
		for _, d := range l.Dates {
			for _, t := range d.Timings {
				if ok(t.Price) {
					return true
				}
			}
		}
		return false
	}
}

func inCategories(wanted []string) predicate {
	set := make(map[string]struct{}, len(wanted))
	for _, c := range wanted {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			set[c] = struct{}{}
		}
	}
	return func(l models.Listing) bool {
		for _, c := range l.Categories {
			if _, ok := set[strings.ToLower(strings.TrimSpace(c))]; ok {
				return true
			}
		}
		return false
	}
}

// MinSearchLength is the shortest query that triggers a name search.
const MinSearchLength = 4

// SearchByName keeps listings whose name contains q, ignoring case.
func SearchByName(listings []models.Listing, q string) []models.Listing {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []models.Listing{}
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Name), q) {
			out = append(out, l)
		}
	}
	return out
}
