// internal/domain/errors.go

package domain

import "errors"

// Repository / infrastructure errors
var (
	ErrOTPNotFound        = errors.New("OTP_NOT_FOUND")
	ErrPersistenceFailure = errors.New("PERSISTENCE_FAILURE")
	ErrCacheUnavailable   = errors.New("CACHE_UNAVAILABLE")
)

// Delivery errors
var (
	ErrDeliveryFailure = errors.New("DELIVERY_FAILURE")
)

// Request errors
var (
	ErrMissingParameters = errors.New("OTP_MISSING")
	ErrTenantInactive    = errors.New("TENANT_INACTIVE")
)

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOTPNotFound)
}

// IsInfrastructureError checks if the error is a store or cache failure
func IsInfrastructureError(err error) bool {
	return errors.Is(err, ErrPersistenceFailure) ||
		errors.Is(err, ErrCacheUnavailable)
}

// IsDeliveryError checks if the error is a notification channel failure
func IsDeliveryError(err error) bool {
	return errors.Is(err, ErrDeliveryFailure)
}

// Error messages for human readable output
var ErrorMessages = map[string]string{
	"OTP_NOT_FOUND":       "OTP not found",
	"PERSISTENCE_FAILURE": "Record store is unavailable",
	"CACHE_UNAVAILABLE":   "Cache store is unavailable",
	"DELIVERY_FAILURE":    "Passcode delivery failed",
	"OTP_MISSING":         "Identifier or OTP code is missing",
	"TENANT_INACTIVE":     "Tenant is deactivated",
}
