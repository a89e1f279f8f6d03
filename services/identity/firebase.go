package identity

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
)

// FirebaseProvider implements Provider on top of Firebase Authentication.
type FirebaseProvider struct {
	client *auth.Client
}

func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, idToken string) (*Principal, error) {
	tok, err := p.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, translate(err)
	}

	principal := &Principal{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		principal.Email = email
	}
	if verified, ok := tok.Claims["email_verified"].(bool); ok {
		principal.EmailVerified = verified
	}
	if role, ok := tok.Claims[RoleClaim].(string); ok {
		principal.Role = role
	}
	return principal, nil
}

// CreateAccount creates the identity record and tags it with its role. If
// tagging fails the record is removed again.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, acc NewAccount) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(acc.Email).
		Password(acc.Password).
		EmailVerified(false)
	if acc.DisplayName != "" {
		params = params.DisplayName(acc.DisplayName)
	}

	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return "", translate(err)
	}
	if err := p.client.SetCustomUserClaims(ctx, rec.UID, map[string]interface{}{RoleClaim: acc.Role}); err != nil {
		_ = p.client.DeleteUser(ctx, rec.UID)
		return "", fmt.Errorf("failed to assign role: %w", translate(err))
	}
	return rec.UID, nil
}

func (p *FirebaseProvider) DeleteAccount(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		return translate(err)
	}
	return nil
}

func (p *FirebaseProvider) Email(ctx context.Context, uid string) (string, error) {
	rec, err := p.client.GetUser(ctx, uid)
	if err != nil {
		return "", translate(err)
	}
	return rec.Email, nil
}

func (p *FirebaseProvider) PasswordResetLink(ctx context.Context, email string) (string, error) {
	link, err := p.client.PasswordResetLink(ctx, email)
	if err != nil {
		return "", translate(err)
	}
	return link, nil
}

func (p *FirebaseProvider) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	link, err := p.client.EmailVerificationLink(ctx, email)
	if err != nil {
		return "", translate(err)
	}
	return link, nil
}

// translate maps Firebase error codes onto this package's sentinels.
func translate(err error) error {
	switch {
	case auth.IsEmailAlreadyExists(err):
		return fmt.Errorf("%w: %v", ErrEmailExists, err)
	case auth.IsUserNotFound(err), auth.IsEmailNotFound(err):
		return fmt.Errorf("%w: %v", ErrAccountMissing, err)
	case auth.IsIDTokenExpired(err), auth.IsIDTokenInvalid(err), auth.IsIDTokenRevoked(err):
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case auth.IsInvalidEmail(err):
		return fmt.Errorf("%w: %v", ErrInvalidEmail, err)
	case auth.IsUserDisabled(err):
		return fmt.Errorf("%w: %v", ErrDisabled, err)
	}
	return err
}
