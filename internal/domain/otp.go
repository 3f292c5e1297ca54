// internal/domain/otp.go

package domain

import (
	"time"

	"github.com/google/uuid"
)

// OTPRecord is one issued passcode. Records are immutable once created:
// consumption and reaping delete them, nothing updates them in place.
// Several live records may exist for the same identifier.
type OTPRecord struct {
	ID         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	Code       string    `json:"code"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Expired reports whether the record can no longer be consumed at now.
// Validity requires now to be strictly before ExpiresAt.
func (r *OTPRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IssueReceipt is what Issue hands back to the caller. A delivery failure is
// carried on the receipt instead of failing the call, because the record was
// still persisted and stays valid for its full window.
type IssueReceipt struct {
	ID            uuid.UUID `json:"uuid"`
	ExpiresAt     time.Time `json:"expires_at"`
	Delivered     bool      `json:"delivered"`
	DeliveryError string    `json:"delivery_error,omitempty"`

	// Code is populated only in test mode so integration tests can close the
	// issue/verify loop without a live delivery channel.
	Code string `json:"code,omitempty"`
}
