// internal/domain/interfaces.go

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OTPStore is durable record management for issued passcodes.
type OTPStore interface {
	Create(ctx context.Context, rec *OTPRecord) error

	// FindLatestValid returns the most recently created record matching both
	// identifier and code exactly (case-sensitive), or ErrOTPNotFound. The
	// newest-first ordering is what makes duplicate-code consumption
	// deterministic, so implementations must honor it.
	FindLatestValid(ctx context.Context, identifier, code string) (*OTPRecord, error)

	// Delete removes the record if it still exists and reports whether it did.
	// Deleting an already-deleted record is a benign no-op.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteExpired removes every record with expiresAt <= now and returns
	// the count removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// OTPService orchestrates issuance and validation.
type OTPService interface {
	Issue(ctx context.Context, identifier string) (*IssueReceipt, error)
	Validate(ctx context.Context, identifier, code string) (bool, error)
}

// Notifier delivers a message to a phone number or email address.
type Notifier interface {
	Send(ctx context.Context, destination, message string) error
}

// TenantResolver supplies the tenant bound to the current operation.
// Absence of a tenant is a valid result, not an error.
type TenantResolver interface {
	CurrentTenant(ctx context.Context) *Tenant
}
