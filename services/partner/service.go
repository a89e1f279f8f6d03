package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"courtside/database/repository"
	"courtside/models"
	"courtside/services/identity"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PaymentConfig holds the secrets behind payment-on-file.
type PaymentConfig struct {
	EncryptionSecret string
	ReauthSecret     string
	ReauthTTL        time.Duration
}

// PartnerService manages venue-owner accounts and their stored card.
type PartnerService interface {
	Register(ctx context.Context, reg models.PartnerRegistration) (*models.Partner, error)
	Get(ctx context.Context, id string) (*models.Partner, error)
	Update(ctx context.Context, id string, upd models.PartnerUpdate) (*models.Partner, error)
	Delete(ctx context.Context, id string) error
	SetCard(ctx context.Context, id string, card models.CardInput) (*models.PaymentOnFile, error)
	Reauth(ctx context.Context, id, password string) (string, time.Time, error)
	RevealCard(ctx context.Context, id, reauthToken string) (*models.RevealedCard, error)
}

type Service struct {
	partners repository.PartnerRepository
	idp      identity.Provider
	cipher   cardCipher
	reauth   reauthIssuer
	logger   *zap.Logger
}

func NewService(partners repository.PartnerRepository, idp identity.Provider, cfg PaymentConfig, logger *zap.Logger) *Service {
	ttl := cfg.ReauthTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		partners: partners,
		idp:      idp,
		cipher:   cardCipher{secret: cfg.EncryptionSecret},
		reauth:   reauthIssuer{secret: []byte(cfg.ReauthSecret), ttl: ttl, now: time.Now},
		logger:   logger,
	}
}

// WithClock replaces the clock used for reauth tokens.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.reauth.now = now
	return s
}

// Register creates the identity record and then the partner document. If the
// document cannot be stored the identity record is removed again.
func (s *Service) Register(ctx context.Context, reg models.PartnerRegistration) (*models.Partner, error) {
	uid, err := s.idp.CreateAccount(ctx, identity.NewAccount{
		Email:       strings.TrimSpace(reg.CompanyEmail),
		Password:    reg.Password,
		DisplayName: reg.CompanyName,
		Role:        identity.RolePartner,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &models.Partner{
		ID:                 uid,
		CompanyName:        strings.TrimSpace(reg.CompanyName),
		CompanyEmail:       strings.ToLower(strings.TrimSpace(reg.CompanyEmail)),
		CompanyPhoneNumber: reg.CompanyPhoneNumber,
		About:              reg.About,
		Listings:           []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.partners.Create(ctx, p); err != nil {
		if delErr := s.idp.DeleteAccount(ctx, uid); delErr != nil {
			s.logger.Error("Failed to roll back identity account",
				zap.String("partnerID", uid), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	s.logger.Info("Partner registered", zap.String("partnerID", uid))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Partner, error) {
	return s.partners.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, upd models.PartnerUpdate) (*models.Partner, error) {
	set := bson.M{}
	if upd.CompanyName != nil {
		set["companyName"] = strings.TrimSpace(*upd.CompanyName)
	}
	if upd.CompanyPhoneNumber != nil {
		set["companyPhoneNumber"] = *upd.CompanyPhoneNumber
	}
	if upd.About != nil {
		set["about"] = *upd.About
	}
	if upd.ProfilePicture != nil {
		set["profilePicture"] = *upd.ProfilePicture
	}
	if upd.SocialMedia != nil {
		set["socialMedia"] = *upd.SocialMedia
	}
	if upd.ContactInfo != nil {
		set["contactInfo"] = *upd.ContactInfo
	}
	if upd.FCMToken != nil {
		set["fcmToken"] = *upd.FCMToken
	}
	if len(set) == 0 {
		return nil, ErrNothingToUpdate
	}
	set["updatedAt"] = time.Now().UTC()

	if err := s.partners.UpdateSet(ctx, id, set); err != nil {
		return nil, err
	}
	return s.partners.GetByID(ctx, id)
}

// Delete removes the partner document and identity record. Listings are left
// in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.partners.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.idp.DeleteAccount(ctx, id); err != nil && !errors.Is(err, identity.ErrAccountMissing) {
		return fmt.Errorf("partner document deleted but identity removal failed: %w", err)
	}
	s.logger.Info("Partner deleted", zap.String("partnerID", id))
	return nil
}

// SetCard encrypts and stores the partner's card together with a bcrypt hash
// of the password that guards reveals.
func (s *Service) SetCard(ctx context.Context, id string, card models.CardInput) (*models.PaymentOnFile, error) {
	if s.cipher.secret == "" {
		return nil, ErrNotConfigured
	}
	salt, err := newSalt()
	if err != nil {
		return nil, err
	}
	number, err := s.cipher.seal(salt, card.CardNumber)
	if err != nil {
		return nil, err
	}
	cvv, err := s.cipher.seal(salt, card.CardCVV)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(card.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash payment password: %w", err)
	}

	payment := models.PaymentOnFile{
		CardNumber:     number,
		CardCVV:        cvv,
		Key:            salt,
		HashedPassword: string(hash),
		Last4:          last4(card.CardNumber),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.partners.SetPayment(ctx, id, payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Reauth checks the payment password and returns a short-lived reveal token.
func (s *Service) Reauth(ctx context.Context, id, password string) (string, time.Time, error) {
	if len(s.reauth.secret) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}
	p, err := s.partners.GetByID(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if p.Payment == nil || p.Payment.HashedPassword == "" {
		return "", time.Time{}, ErrPaymentNotSet
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.Payment.HashedPassword), []byte(password)); err != nil {
		return "", time.Time{}, ErrWrongPassword
	}
	return s.reauth.issue(id)
}

// RevealCard decrypts the stored card for a holder of a valid reveal token.
func (s *Service) RevealCard(ctx context.Context, id, reauthToken string) (*models.RevealedCard, error) {
	if reauthToken == "" {
		return nil, ErrReauthRequired
	}
	if err := s.reauth.verify(reauthToken, id); err != nil {
		return nil, err
	}
	p, err := s.partners.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Payment == nil {
		return nil, ErrPaymentNotSet
	}
	number, err := s.cipher.open(p.Payment.Key, p.Payment.CardNumber)
	if err != nil {
		return nil, err
	}
	cvv, err := s.cipher.open(p.Payment.Key, p.Payment.CardCVV)
	if err != nil {
		return nil, err
	}
	return &models.RevealedCard{CardNumber: number, CardCVV: cvv}, nil
}

func last4(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
