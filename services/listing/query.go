package listing

import (
	"context"
	"strings"

	"courtside/models"

	"go.uber.org/zap"
)

// NoResultsNotice accompanies an empty query result.
const NoResultsNotice = "No listings match your filters. Try widening your search."

// QueryResult is a page of listings plus an optional informational notice.
type QueryResult struct {
	Listings []models.Listing `json:"listings"`
	Notice   string           `json:"notice,omitempty"`
}

// Query filters the full listing set and remembers the result for the session.
func (s *Service) Query(ctx context.Context, sessionID string, c Criteria) (*QueryResult, error) {
	all, err := s.listings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := Filter(all, c, s.priceMode)
	s.saveSnapshot(ctx, sessionID, filtered)
	return newResult(filtered), nil
}

// Search matches listing names against q within the session's last query.
// Queries shorter than MinSearchLength restore that query's result.
func (s *Service) Search(ctx context.Context, sessionID, q string) (*QueryResult, error) {
	q = strings.TrimSpace(q)
	all, err := s.listings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	base := s.restore(ctx, sessionID, all)
	if len([]rune(q)) < MinSearchLength {
		return newResult(base), nil
	}
	return newResult(SearchByName(base, q)), nil
}

func (s *Service) saveSnapshot(ctx context.Context, sessionID string, listings []models.Listing) {
	if s.snapshots == nil || sessionID == "" {
		return
	}
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	if err := s.snapshots.Save(ctx, sessionID, ids); err != nil {
		s.logger.Warn("Failed to save listing snapshot", zap.String("sessionID", sessionID), zap.Error(err))
	}
}

// restore resolves the session snapshot against current data, falling back to all.
func (s *Service) restore(ctx context.Context, sessionID string, all []models.Listing) []models.Listing {
	if s.snapshots == nil || sessionID == "" {
		return all
	}
	ids, ok, err := s.snapshots.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Failed to load listing snapshot", zap.String("sessionID", sessionID), zap.Error(err))
		return all
	}
	if !ok {
		return all
	}

	byID := make(map[string]models.Listing, len(all))
	for _, l := range all {
		byID[l.ID] = l
	}
	out := []models.Listing{}
	for _, id := range ids {
		if l, found := byID[id]; found {
			out = append(out, l)
		}
	}
	return out
}

func newResult(listings []models.Listing) *QueryResult {
	res := &QueryResult{Listings: listings}
	if len(listings) == 0 {
		res.Notice = NoResultsNotice
	}
	return res
}
