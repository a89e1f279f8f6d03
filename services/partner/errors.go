package partner

import "errors"

var (
	ErrNothingToUpdate = errors.New("no fields to update")
	ErrPaymentNotSet   = errors.New("no payment method on file")
	ErrWrongPassword   = errors.New("incorrect payment password")
	ErrReauthRequired  = errors.New("re-authentication required")
	ErrNotConfigured   = errors.New("payment encryption is not configured")
)
