package booking

import "errors"

var (
	ErrInvalidPaymentOption = errors.New("payment option must be cash or card")
	ErrInvalidDate          = errors.New("invalid booking date")
	ErrInvalidRole          = errors.New("actor role must be user or partner")
	// ErrContention means every attempt lost the race against another writer.
	ErrContention = errors.New("listing is busy, please retry")
)
