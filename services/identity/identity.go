package identity

import (
	"context"
	"errors"
)

// Account roles stored as a custom claim on the identity record.
const (
	RoleUser    = "user"
	RolePartner = "partner"
	RoleClaim   = "role"
)

var (
	ErrEmailExists    = errors.New("email already in use")
	ErrAccountMissing = errors.New("account not found")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrDisabled       = errors.New("account disabled")
)

// Principal is the verified caller behind an ID token.
type Principal struct {
	UID           string
	Email         string
	EmailVerified bool
	Role          string
}

// NewAccount is what sign-up hands to the identity provider.
type NewAccount struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// Provider is the managed authentication service.
type Provider interface {
	VerifyToken(ctx context.Context, idToken string) (*Principal, error)
	CreateAccount(ctx context.Context, acc NewAccount) (uid string, err error)
	DeleteAccount(ctx context.Context, uid string) error
	// Email returns the address currently on the identity record.
	Email(ctx context.Context, uid string) (string, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
	EmailVerificationLink(ctx context.Context, email string) (string, error)
}
