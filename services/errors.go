package services

import (
	"errors"

	"yoga/database"
)

// Sentinel errors let the transport layer map failures to status codes.
var (
	// Access
	ErrUnauthenticated = errors.New("unauthorized access")
	ErrForbidden       = errors.New("forbidden access")

	// Store
	ErrInvalidIdentifier = database.ErrInvalidIdentifier
	ErrStoreUnavailable  = database.ErrStoreUnavailable

	// Enrollment
	ErrMissingReference       = errors.New("payment has no cart item reference")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrEnrollmentUpdateFailed = errors.New("course enrollment count was not updated")
	ErrPaymentNotFound        = errors.New("payment not found")

	// Moderation
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// Payment processor
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrPaymentFailed = errors.New("payment failed")
	ErrProviderDown  = errors.New("payment provider unavailable")
)
