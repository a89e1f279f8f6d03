package partner_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtside/database/memory"
	partnerRepo "courtside/database/repository/partner"
	"courtside/models"
	"courtside/services/identity"
	"courtside/services/partner"
)

var testPayment = partner.PaymentConfig{
	EncryptionSecret: "card-secret",
	ReauthSecret:     "reauth-secret",
	ReauthTTL:        5 * time.Minute,
}

func newService(t *testing.T) (*partner.Service, *memory.DB, *identity.Fake) {
	t.Helper()
	db := memory.New()
	idp := identity.NewFake()
	return partner.NewService(db.Partners(), idp, testPayment, zap.NewNop()), db, idp
}

func register(t *testing.T, svc *partner.Service) *models.Partner {
	t.Helper()
	p, err := svc.Register(context.Background(), models.PartnerRegistration{
		CompanyName:  " Marina Sports ",
		CompanyEmail: "Ops@Marina.example",
		Password:     "supersecret",
	})
	require.NoError(t, err)
	return p
}

func TestRegister(t *testing.T) {
	svc, db, idp := newService(t)

	p := register(t, svc)
	assert.Equal(t, "uid-1", p.ID)
	assert.Equal(t, "Marina Sports", p.CompanyName)
	assert.Equal(t, "ops@marina.example", p.CompanyEmail)
	assert.True(t, idp.Exists(p.ID))

	stored, err := db.Partners().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Listings)

	_, err = svc.Register(context.Background(), models.PartnerRegistration{
		CompanyName: "Other", CompanyEmail: "ops@marina.example", Password: "supersecret",
	})
	assert.ErrorIs(t, err, identity.ErrEmailExists)
}

func TestRegister_RollsBackIdentityWhenDocumentFails(t *testing.T) {
	svc, db, idp := newService(t)
	// The fake hands out uid-1 first, so a stale document under that id collides.
	require.NoError(t, db.Partners().Create(context.Background(), &models.Partner{ID: "uid-1"}))

	_, err := svc.Register(context.Background(), models.PartnerRegistration{
		CompanyName: "Marina Sports", CompanyEmail: "ops@marina.example", Password: "supersecret",
	})
	assert.ErrorIs(t, err, partnerRepo.ErrPartnerExists)
	assert.False(t, idp.Exists("uid-1"))
}

func TestUpdate(t *testing.T) {
	svc, _, _ := newService(t)
	p := register(t, svc)
	ctx := context.Background()

	name := "Marina Padel Club"
	token := "fcm-1"
	got, err := svc.Update(ctx, p.ID, models.PartnerUpdate{
		CompanyName: &name,
		FCMToken:    &token,
		SocialMedia: &models.SocialMedia{Instagram: "@marinapadel"},
	})
	require.NoError(t, err)
	assert.Equal(t, name, got.CompanyName)
	assert.Equal(t, "fcm-1", got.FCMToken)
	assert.Equal(t, "@marinapadel", got.SocialMedia.Instagram)
	assert.Equal(t, "ops@marina.example", got.CompanyEmail)

	_, err = svc.Update(ctx, p.ID, models.PartnerUpdate{})
	assert.ErrorIs(t, err, partner.ErrNothingToUpdate)

	_, err = svc.Update(ctx, "missing", models.PartnerUpdate{CompanyName: &name})
	assert.ErrorIs(t, err, partnerRepo.ErrPartnerNotFound)
}

func TestDelete(t *testing.T) {
	svc, db, idp := newService(t)
	p := register(t, svc)

	require.NoError(t, svc.Delete(context.Background(), p.ID))
	assert.False(t, idp.Exists(p.ID))
	_, err := db.Partners().GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, partnerRepo.ErrPartnerNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), p.ID), partnerRepo.ErrPartnerNotFound)
}

func TestPaymentOnFile_RoundTrip(t *testing.T) {
	svc, db, _ := newService(t)
	p := register(t, svc)
	ctx := context.Background()

	payment, err := svc.SetCard(ctx, p.ID, models.CardInput{
		CardNumber: "4111111111111111", CardCVV: "123", Password: "cardpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, "1111", payment.Last4)

	stored, err := db.Partners().GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Payment)
	assert.NotContains(t, stored.Payment.CardNumber, "4111")
	assert.NotEqual(t, "cardpass1", stored.Payment.HashedPassword)
	assert.NotEmpty(t, stored.Payment.Key)

	_, _, err = svc.Reauth(ctx, p.ID, "wrong-pass")
	assert.ErrorIs(t, err, partner.ErrWrongPassword)

	token, exp, err := svc.Reauth(ctx, p.ID, "cardpass1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, time.Minute)

	card, err := svc.RevealCard(ctx, p.ID, token)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", card.CardNumber)
	assert.Equal(t, "123", card.CardCVV)
}

func TestRevealCard_RejectsBadTokens(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	a := register(t, svc)
	b, err := svc.Register(ctx, models.PartnerRegistration{
		CompanyName: "Second", CompanyEmail: "second@example.com", Password: "supersecret",
	})
	require.NoError(t, err)

	for _, p := range []*models.Partner{a, b} {
		_, err := svc.SetCard(ctx, p.ID, models.CardInput{CardNumber: "5500000000000004", CardCVV: "999", Password: "cardpass1"})
		require.NoError(t, err)
	}
	tokenA, _, err := svc.Reauth(ctx, a.ID, "cardpass1")
	require.NoError(t, err)

	_, err = svc.RevealCard(ctx, a.ID, "")
	assert.ErrorIs(t, err, partner.ErrReauthRequired)

	_, err = svc.RevealCard(ctx, a.ID, "not-a-jwt")
	assert.ErrorIs(t, err, partner.ErrReauthRequired)

	_, err = svc.RevealCard(ctx, b.ID, tokenA)
	assert.ErrorIs(t, err, partner.ErrReauthRequired)

	svc.WithClock(func() time.Time { return time.Now().Add(10 * time.Minute) })
	_, err = svc.RevealCard(ctx, a.ID, tokenA)
	assert.ErrorIs(t, err, partner.ErrReauthRequired)
}

func TestReauth_WithoutCard(t *testing.T) {
	svc, _, _ := newService(t)
	p := register(t, svc)

	_, _, err := svc.Reauth(context.Background(), p.ID, "anything")
	assert.ErrorIs(t, err, partner.ErrPaymentNotSet)
}

func TestSetCard_RequiresSecret(t *testing.T) {
	db := memory.New()
	svc := partner.NewService(db.Partners(), identity.NewFake(), partner.PaymentConfig{}, zap.NewNop())

	_, err := svc.SetCard(context.Background(), "p1", models.CardInput{CardNumber: "4111111111111111", CardCVV: "123", Password: "cardpass1"})
	assert.ErrorIs(t, err, partner.ErrNotConfigured)
}
