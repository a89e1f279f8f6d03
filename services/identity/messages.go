package identity

import "errors"

// DefaultMessage is shown for identity errors without a specific message.
const DefaultMessage = "Something went wrong with your account request. Please try again."

var messages = []struct {
	err error
	msg string
}{
	{ErrEmailExists, "An account with this email already exists."},
	{ErrAccountMissing, "We couldn't find an account with those details."},
	{ErrInvalidToken, "Your session has expired. Please sign in again."},
	{ErrInvalidEmail, "Please enter a valid email address."},
	{ErrDisabled, "This account has been disabled. Contact support for help."},
}

// Message returns the user-facing text for an identity error.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return DefaultMessage
}
