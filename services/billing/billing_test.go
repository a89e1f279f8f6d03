package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtside/database/memory"
	"courtside/models"
	"courtside/services/billing"
)

func dubai(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Dubai")
	require.NoError(t, err)
	return loc
}

func TestAdvance(t *testing.T) {
	loc := dubai(t)
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, loc)
	prev := time.Date(2025, 5, 15, 8, 0, 0, 0, loc)

	tests := []struct {
		name       string
		current    *models.BillingDates
		wantChange billing.Change
		wantLatest time.Time
		wantNext   time.Time
	}{
		{
			name:       "missing dates start a cycle",
			current:    nil,
			wantChange: billing.Initialized,
			wantLatest: now,
			wantNext:   now.AddDate(0, 1, 0),
		},
		{
			name:       "due today",
			current:    &models.BillingDates{LatestBilledAt: prev, NextBillingAt: time.Date(2025, 6, 15, 23, 30, 0, 0, loc)},
			wantChange: billing.Advanced,
			wantLatest: time.Date(2025, 6, 15, 23, 30, 0, 0, loc),
			wantNext:   now.AddDate(0, 1, 0),
		},
		{
			name:       "not yet due",
			current:    &models.BillingDates{LatestBilledAt: prev, NextBillingAt: time.Date(2025, 6, 16, 0, 0, 0, 0, loc)},
			wantChange: billing.Unchanged,
			wantLatest: prev,
			wantNext:   time.Date(2025, 6, 16, 0, 0, 0, 0, loc),
		},
		{
			name:       "past due day is left alone",
			current:    &models.BillingDates{LatestBilledAt: prev, NextBillingAt: time.Date(2025, 6, 12, 0, 0, 0, 0, loc)},
			wantChange: billing.Unchanged,
			wantLatest: prev,
			wantNext:   time.Date(2025, 6, 12, 0, 0, 0, 0, loc),
		},
		{
			name:       "long overdue is left alone",
			current:    &models.BillingDates{LatestBilledAt: prev, NextBillingAt: now.AddDate(0, 0, -20)},
			wantChange: billing.Unchanged,
			wantLatest: prev,
			wantNext:   now.AddDate(0, 0, -20),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, change := billing.Advance(tt.current, now, loc)
			assert.Equal(t, tt.wantChange, change)
			assert.True(t, tt.wantLatest.Equal(got.LatestBilledAt), "latest %s", got.LatestBilledAt)
			assert.True(t, tt.wantNext.Equal(got.NextBillingAt), "next %s", got.NextBillingAt)
		})
	}
}

func TestAdvance_UsesConfiguredTimezone(t *testing.T) {
	loc := dubai(t)
	// 21:00 UTC on the 14th is already the 15th in Dubai.
	now := time.Date(2025, 6, 14, 21, 0, 0, 0, time.UTC)
	next := time.Date(2025, 6, 15, 10, 0, 0, 0, loc)

	_, change := billing.Advance(&models.BillingDates{NextBillingAt: next}, now, loc)
	assert.Equal(t, billing.Advanced, change)

	_, change = billing.Advance(&models.BillingDates{NextBillingAt: next}, now, time.UTC)
	assert.Equal(t, billing.Unchanged, change)
}

func TestRun_IsIdempotentWithinADay(t *testing.T) {
	ctx := context.Background()
	loc := dubai(t)
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, loc)

	db := memory.New()
	partners := db.Partners()
	require.NoError(t, partners.Create(ctx, &models.Partner{ID: "new"}))
	require.NoError(t, partners.Create(ctx, &models.Partner{ID: "due", BillingDates: &models.BillingDates{
		LatestBilledAt: now.AddDate(0, -1, 0),
		NextBillingAt:  now.Add(-2 * time.Hour),
	}}))
	require.NoError(t, partners.Create(ctx, &models.Partner{ID: "later", BillingDates: &models.BillingDates{
		LatestBilledAt: now.AddDate(0, 0, -10),
		NextBillingAt:  now.AddDate(0, 0, 20),
	}}))

	svc := billing.NewService(partners, loc, zap.NewNop()).WithClock(func() time.Time { return now })

	report, err := svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Initialized)
	assert.Equal(t, 1, report.Advanced)
	assert.Equal(t, 0, report.Failed)

	due, err := partners.GetByID(ctx, "due")
	require.NoError(t, err)
	firstNext := due.BillingDates.NextBillingAt
	assert.WithinDuration(t, now.AddDate(0, 1, 0), firstNext, time.Second)

	report, err = svc.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Initialized)
	assert.Equal(t, 0, report.Advanced)

	due, err = partners.GetByID(ctx, "due")
	require.NoError(t, err)
	assert.True(t, firstNext.Equal(due.BillingDates.NextBillingAt))
}
