package identity_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"courtside/services/identity"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: EMAIL_EXISTS", identity.ErrEmailExists), "An account with this email already exists."},
		{identity.ErrAccountMissing, "We couldn't find an account with those details."},
		{fmt.Errorf("wrapped: %w", identity.ErrInvalidToken), "Your session has expired. Please sign in again."},
		{identity.ErrInvalidEmail, "Please enter a valid email address."},
		{identity.ErrDisabled, "This account has been disabled. Contact support for help."},
		{errors.New("quota exceeded"), identity.DefaultMessage},
		{nil, identity.DefaultMessage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, identity.Message(tt.err))
	}
}
