package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake is an in-memory Provider. ID tokens are "token-<uid>".
type Fake struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount
	seq      int
}

type fakeAccount struct {
	email    string
	password string
	role     string
}

func NewFake() *Fake {
	return &Fake{accounts: map[string]fakeAccount{}}
}

// Add registers an account directly and returns its ID token.
func (f *Fake) Add(uid, email, role string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[uid] = fakeAccount{email: email, role: role}
	return "token-" + uid
}

// SetEmail changes the address on an existing identity record.
func (f *Fake) SetEmail(uid, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc := f.accounts[uid]
	acc.email = email
	f.accounts[uid] = acc
}

func (f *Fake) Exists(uid string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.accounts[uid]
	return ok
}

func (f *Fake) VerifyToken(_ context.Context, idToken string) (*Principal, error) {
	uid := strings.TrimPrefix(idToken, "token-")
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[uid]
	if !ok || uid == idToken {
		return nil, ErrInvalidToken
	}
	return &Principal{UID: uid, Email: acc.email, Role: acc.role}, nil
}

func (f *Fake) CreateAccount(_ context.Context, acc NewAccount) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.Contains(acc.Email, "@") {
		return "", ErrInvalidEmail
	}
	for _, a := range f.accounts {
		if strings.EqualFold(a.email, acc.Email) {
			return "", ErrEmailExists
		}
	}
	f.seq++
	uid := fmt.Sprintf("uid-%d", f.seq)
	f.accounts[uid] = fakeAccount{email: acc.Email, password: acc.Password, role: acc.Role}
	return uid, nil
}

func (f *Fake) DeleteAccount(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[uid]; !ok {
		return ErrAccountMissing
	}
	delete(f.accounts, uid)
	return nil
}

func (f *Fake) Email(_ context.Context, uid string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.accounts[uid]
	if !ok {
		return "", ErrAccountMissing
	}
	return acc.email, nil
}

func (f *Fake) PasswordResetLink(_ context.Context, email string) (string, error) {
	return f.link("resetPassword", email)
}

func (f *Fake) EmailVerificationLink(_ context.Context, email string) (string, error) {
	return f.link("verifyEmail", email)
}

func (f *Fake) link(mode, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.email, email) {
			return fmt.Sprintf("https://auth.example.test/action?mode=%s&email=%s", mode, email), nil
		}
	}
	return "", ErrAccountMissing
}
