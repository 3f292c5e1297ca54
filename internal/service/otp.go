// internal/service/otp.go

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tenant-otp-service/internal/domain"
	"tenant-otp-service/internal/metrics"
	"tenant-otp-service/pkg/logger"
	"tenant-otp-service/pkg/utils"
)

const (
	defaultCodeLength = 6
	defaultWindow     = 5 * time.Minute
)

type otpManager struct {
	store      domain.OTPStore
	sms        domain.Notifier
	email      domain.Notifier
	codeLength int
	window     time.Duration
	testMode   bool
}

type ManagerOptions struct {
	CodeLength int
	Window     time.Duration
	ServerMode string
}

// NewOTPManager builds the issuance/validation orchestrator. Either channel
// may be nil, in which case identifiers routed to it are persisted but not
// delivered.
func NewOTPManager(store domain.OTPStore, sms, email domain.Notifier, opts ManagerOptions) domain.OTPService {
	if opts.CodeLength <= 0 {
		opts.CodeLength = defaultCodeLength
	}
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	return &otpManager{
		store:      store,
		sms:        sms,
		email:      email,
		codeLength: opts.CodeLength,
		window:     opts.Window,
		testMode:   opts.ServerMode == "test",
	}
}

func (m *otpManager) Issue(ctx context.Context, identifier string) (*domain.IssueReceipt, error) {
	code, err := utils.GenerateNumericCode(m.codeLength)
	if err != nil {
		metrics.RecordIssue(false)
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := time.Now()
	rec := &domain.OTPRecord{
		ID:         uuid.New(),
		Identifier: identifier,
		Code:       code,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.window),
	}

	if err := m.store.Create(ctx, rec); err != nil {
		logger.Error("Failed to store OTP record: ", err)
		metrics.RecordIssue(false)
		return nil, err
	}
	metrics.RecordIssue(true)

	receipt := &domain.IssueReceipt{
		ID:        rec.ID,
		ExpiresAt: rec.ExpiresAt,
	}
	if m.testMode {
		receipt.Code = code
		logger.Warn("Test mode: OTP code included in receipt for ", identifier)
	}

	// The record is durable at this point. Delivery failure is reported on
	// the receipt and never rolls the record back; resending is the caller's
	// concern.
	channel, channelName := m.channelFor(identifier)
	if channel == nil {
		logger.Debug("No ", channelName, " channel configured, skipping delivery for ", identifier)
		return receipt, nil
	}

	message := fmt.Sprintf("Your verification code is %s", code)
	if err := channel.Send(ctx, identifier, message); err != nil {
		logger.Warn("OTP delivery failed: ", err)
		metrics.RecordDeliveryFailure(channelName)
		receipt.DeliveryError = err.Error()
		return receipt, nil
	}

	receipt.Delivered = true
	return receipt, nil
}

// Validate reports whether identifier/code names a live passcode and, when it
// does, consumes it. Wrong code, expired and never-issued all collapse into
// the same false result so callers cannot probe which applied.
func (m *otpManager) Validate(ctx context.Context, identifier, code string) (bool, error) {
	rec, err := m.store.FindLatestValid(ctx, identifier, code)
	if err != nil {
		if domain.IsNotFound(err) {
			metrics.RecordValidation(false)
			return false, nil
		}
		return false, err
	}

	// Expired records are left in place; purging them is the reaper's job.
	if rec.Expired(time.Now()) {
		metrics.RecordValidation(false)
		return false, nil
	}

	// Single use: the delete is the consumption. If the record vanished
	// between lookup and delete, a concurrent caller consumed it and this
	// attempt must not also succeed.
	consumed, err := m.store.Delete(ctx, rec.ID)
	if err != nil {
		return false, err
	}

	metrics.RecordValidation(consumed)
	return consumed, nil
}

func (m *otpManager) channelFor(identifier string) (domain.Notifier, string) {
	if utils.IsPhoneNumber(identifier) {
		return m.sms, "sms"
	}
	return m.email, "email"
}
