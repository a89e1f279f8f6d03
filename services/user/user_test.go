package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtside/database/memory"
	userRepo "courtside/database/repository/user"
	"courtside/models"
	"courtside/services/identity"
	"courtside/services/user"
)

func newService() (*user.Service, *memory.DB, *identity.Fake) {
	db := memory.New()
	idp := identity.NewFake()
	return user.NewService(db.Users(), idp, zap.NewNop()), db, idp
}

func TestRegister(t *testing.T) {
	svc, _, idp := newService()
	ctx := context.Background()

	u, err := svc.Register(ctx, models.UserRegistration{
		FirstName: "Sara", LastName: "Ali", Email: " Sara@Example.com ", Password: "password1",
		PreferredEmirate: "Dubai",
	})
	require.NoError(t, err)
	assert.Equal(t, "sara@example.com", u.Email)
	assert.True(t, idp.Exists(u.ID))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dubai", got.PreferredEmirate)

	_, err = svc.Register(ctx, models.UserRegistration{FirstName: "Dup", Email: "sara@example.com", Password: "password1"})
	assert.ErrorIs(t, err, identity.ErrEmailExists)
}

func TestRegister_RollsBackIdentity(t *testing.T) {
	svc, db, idp := newService()
	require.NoError(t, db.Users().Create(context.Background(), &models.User{ID: "uid-1"}))

	_, err := svc.Register(context.Background(), models.UserRegistration{FirstName: "Sara", Email: "sara@example.com", Password: "password1"})
	assert.ErrorIs(t, err, userRepo.ErrUserExists)
	assert.False(t, idp.Exists("uid-1"))
}

func TestUpdate(t *testing.T) {
	svc, db, _ := newService()
	ctx := context.Background()
	require.NoError(t, db.Users().Create(ctx, &models.User{ID: "u1", FirstName: "Sara", Email: "sara@example.com"}))

	district := "Marina"
	off := false
	got, err := svc.Update(ctx, "u1", models.UserUpdate{PreferredDistrict: &district, EmailSubscription: &off})
	require.NoError(t, err)
	assert.Equal(t, "Marina", got.PreferredDistrict)
	assert.Equal(t, "Sara", got.FirstName)

	_, err = svc.Update(ctx, "u1", models.UserUpdate{})
	assert.ErrorIs(t, err, user.ErrNothingToUpdate)
}

func TestDelete(t *testing.T) {
	svc, _, idp := newService()
	ctx := context.Background()
	u, err := svc.Register(ctx, models.UserRegistration{FirstName: "Sara", Email: "sara@example.com", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.False(t, idp.Exists(u.ID))
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, userRepo.ErrUserNotFound)
}

func TestBookings_NewestFirst(t *testing.T) {
	svc, db, _ := newService()
	ctx := context.Background()
	require.NoError(t, db.Users().Create(ctx, &models.User{ID: "u1"}))
	for _, b := range []models.Booking{
		{ListingID: "l1", Date: "2025-06-01", Time: models.BookingTime{StartTime: "09:00", EndTime: "10:00"}},
		{ListingID: "l1", Date: "2025-06-03", Time: models.BookingTime{StartTime: "08:00", EndTime: "09:00"}},
		{ListingID: "l2", Date: "2025-06-03", Time: models.BookingTime{StartTime: "18:00", EndTime: "19:00"}},
	} {
		require.NoError(t, db.Users().AppendBooking(ctx, "u1", b))
	}

	got, err := svc.Bookings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "18:00", got[0].Time.StartTime)
	assert.Equal(t, "08:00", got[1].Time.StartTime)
	assert.Equal(t, "2025-06-01", got[2].Date)
}

func TestSyncEmails(t *testing.T) {
	svc, db, idp := newService()
	ctx := context.Background()

	idp.Add("u1", "new@example.com", identity.RoleUser)
	idp.Add("u2", "same@example.com", identity.RoleUser)
	require.NoError(t, db.Users().Create(ctx, &models.User{ID: "u1", Email: "old@example.com"}))
	require.NoError(t, db.Users().Create(ctx, &models.User{ID: "u2", Email: "same@example.com"}))
	require.NoError(t, db.Users().Create(ctx, &models.User{ID: "orphan", Email: "orphan@example.com"}))

	report, err := svc.SyncEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Failed)

	u1, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u1.Email)

	again, err := svc.SyncEmails(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Updated)
}
