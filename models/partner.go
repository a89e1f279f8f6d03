package models

import "time"

// BillingDates tracks a partner's monthly subscription bookkeeping window.
type BillingDates struct {
	LatestBilledAt time.Time `bson:"latestBilledAt" json:"latestBilledAt"`
	NextBillingAt  time.Time `bson:"nextBillingAt" json:"nextBillingAt"`
}

// SocialMedia holds a partner's public profile links.
type SocialMedia struct {
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	X         string `bson:"x,omitempty" json:"x,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

// ContactInfo is what end users see when they want to reach the venue.
type ContactInfo struct {
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
}

// PaymentOnFile stores the partner's card. CardNumber and CardCVV are
// AES-GCM ciphertexts; Key is the per-partner salt used to derive the data key.
type PaymentOnFile struct {
	CardNumber     string    `bson:"cardNumber" json:"-"`
	CardCVV        string    `bson:"cardCVV" json:"-"`
	Key            string    `bson:"key" json:"-"`
	HashedPassword string    `bson:"hashedPassword" json:"-"`
	Last4          string    `bson:"last4" json:"last4"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Partner is a venue-owning account, keyed by its identity-provider uid.
type Partner struct {
	ID                 string         `bson:"id" json:"id"`
	CompanyName        string         `bson:"companyName" json:"companyName"`
	CompanyEmail       string         `bson:"companyEmail" json:"companyEmail"`
	CompanyPhoneNumber string         `bson:"companyPhoneNumber" json:"companyPhoneNumber"`
	About              string         `bson:"about" json:"about"`
	ProfilePicture     string         `bson:"profilePicture" json:"profilePicture"`
	SocialMedia        SocialMedia    `bson:"socialMedia" json:"socialMedia"`
	ContactInfo        ContactInfo    `bson:"contactInfo" json:"contactInfo"`
	FCMToken           string         `bson:"fcmToken,omitempty" json:"-"`
	Payment            *PaymentOnFile `bson:"payment,omitempty" json:"payment,omitempty"`
	BillingDates       *BillingDates  `bson:"billingDates,omitempty" json:"billingDates,omitempty"`
	Listings           []string       `bson:"listings" json:"listings"`
	CreatedAt          time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// PartnerRegistration is the sign-up payload for venue owners.
type PartnerRegistration struct {
	CompanyName        string `json:"companyName" binding:"required"`
	CompanyEmail       string `json:"companyEmail" binding:"required,email"`
	CompanyPhoneNumber string `json:"companyPhoneNumber"`
	Password           string `json:"password" binding:"required,min=8"`
	About              string `json:"about"`
}

// PartnerUpdate is a patch of the company profile; nil fields are left alone.
type PartnerUpdate struct {
	CompanyName        *string      `json:"companyName"`
	CompanyPhoneNumber *string      `json:"companyPhoneNumber"`
	About              *string      `json:"about"`
	ProfilePicture     *string      `json:"profilePicture"`
	SocialMedia        *SocialMedia `json:"socialMedia"`
	ContactInfo        *ContactInfo `json:"contactInfo"`
	FCMToken           *string      `json:"fcmToken"`
}

// CardInput is the plaintext card submitted by a partner.
type CardInput struct {
	CardNumber string `json:"cardNumber" binding:"required,min=12,max=19,numeric"`
	CardCVV    string `json:"cardCVV" binding:"required,min=3,max=4,numeric"`
	Password   string `json:"password" binding:"required,min=8"`
}

// RevealedCard is the decrypted card returned after re-authentication.
type RevealedCard struct {
	CardNumber string `json:"cardNumber"`
	CardCVV    string `json:"cardCVV"`
}
