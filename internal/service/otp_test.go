package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tenant-otp-service/internal/domain"
	memrepo "tenant-otp-service/internal/repository/memory"
)

type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Create(ctx context.Context, rec *domain.OTPRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockOTPStore) FindLatestValid(ctx context.Context, identifier, code string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, identifier, code)
	if rec := args.Get(0); rec != nil {
		return rec.(*domain.OTPRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOTPStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOTPStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, destination, message string) error {
	args := m.Called(ctx, destination, message)
	return args.Error(0)
}

func TestIssuePersistsAndDeliversSMS(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	sms := new(MockNotifier)
	email := new(MockNotifier)

	var persisted *domain.OTPRecord
	store.On("Create", ctx, mock.AnythingOfType("*domain.OTPRecord")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*domain.OTPRecord)
		}).
		Return(nil)
	sms.On("Send", ctx, "+14155551234", mock.AnythingOfType("string")).Return(nil)

	svc := NewOTPManager(store, sms, email, ManagerOptions{})

	receipt, err := svc.Issue(ctx, "+14155551234")
	assert.NoError(t, err)
	assert.True(t, receipt.Delivered)
	assert.Empty(t, receipt.DeliveryError)
	assert.Empty(t, receipt.Code, "codes never leak outside test mode")

	assert.NotNil(t, persisted)
	assert.Equal(t, "+14155551234", persisted.Identifier)
	assert.Len(t, persisted.Code, 6)
	assert.WithinDuration(t, persisted.CreatedAt.Add(5*time.Minute), persisted.ExpiresAt, time.Second)

	store.AssertExpectations(t)
	sms.AssertExpectations(t)
	email.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestIssueRoutesEmailChannel(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	sms := new(MockNotifier)
	email := new(MockNotifier)

	store.On("Create", ctx, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)
	email.On("Send", ctx, "user@example.com", mock.AnythingOfType("string")).Return(nil)

	svc := NewOTPManager(store, sms, email, ManagerOptions{})

	receipt, err := svc.Issue(ctx, "user@example.com")
	assert.NoError(t, err)
	assert.True(t, receipt.Delivered)

	email.AssertExpectations(t)
	sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestIssueDeliveryFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	sms := new(MockNotifier)

	store.On("Create", ctx, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)
	sms.On("Send", ctx, "+14155551234", mock.AnythingOfType("string")).
		Return(errors.New("gateway timeout"))

	svc := NewOTPManager(store, sms, nil, ManagerOptions{})

	receipt, err := svc.Issue(ctx, "+14155551234")
	assert.NoError(t, err, "delivery failure never fails issuance")
	assert.False(t, receipt.Delivered)
	assert.Contains(t, receipt.DeliveryError, "gateway timeout")

	// The record was persisted before delivery was attempted.
	store.AssertCalled(t, "Create", ctx, mock.AnythingOfType("*domain.OTPRecord"))
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestIssueWithoutChannelSkipsDelivery(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	store.On("Create", ctx, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)

	svc := NewOTPManager(store, nil, nil, ManagerOptions{})

	receipt, err := svc.Issue(ctx, "user@example.com")
	assert.NoError(t, err)
	assert.False(t, receipt.Delivered)
	assert.Empty(t, receipt.DeliveryError)
}

func TestIssueStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	sms := new(MockNotifier)

	store.On("Create", ctx, mock.AnythingOfType("*domain.OTPRecord")).
		Return(domain.ErrPersistenceFailure)

	svc := NewOTPManager(store, sms, nil, ManagerOptions{})

	_, err := svc.Issue(ctx, "+14155551234")
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
	sms.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestIssueTestModeExposesCode(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	store.On("Create", ctx, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)

	svc := NewOTPManager(store, nil, nil, ManagerOptions{ServerMode: "test"})

	receipt, err := svc.Issue(ctx, "user@example.com")
	assert.NoError(t, err)
	assert.Len(t, receipt.Code, 6)
}

func TestValidateConsumesOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	rec := &domain.OTPRecord{
		ID:         uuid.New(),
		Identifier: "+14155551234",
		Code:       "482913",
		CreatedAt:  now,
		ExpiresAt:  now.Add(5 * time.Minute),
	}

	store := new(MockOTPStore)
	store.On("FindLatestValid", ctx, "+14155551234", "482913").Return(rec, nil)
	store.On("Delete", ctx, rec.ID).Return(true, nil)

	svc := NewOTPManager(store, nil, nil, ManagerOptions{})

	ok, err := svc.Validate(ctx, "+14155551234", "482913")
	assert.NoError(t, err)
	assert.True(t, ok)
	store.AssertExpectations(t)
}

func TestValidateLosesDeleteRace(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	rec := &domain.OTPRecord{
		ID:         uuid.New(),
		Identifier: "+14155551234",
		Code:       "482913",
		CreatedAt:  now,
		ExpiresAt:  now.Add(5 * time.Minute),
	}

	store := new(MockOTPStore)
	store.On("FindLatestValid", ctx, "+14155551234", "482913").Return(rec, nil)
	// Someone else consumed the record between lookup and delete.
	store.On("Delete", ctx, rec.ID).Return(false, nil)

	svc := NewOTPManager(store, nil, nil, ManagerOptions{})

	ok, err := svc.Validate(ctx, "+14155551234", "482913")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateExpiredRecord(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	rec := &domain.OTPRecord{
		ID:         uuid.New(),
		Identifier: "user@example.com",
		Code:       "482913",
		CreatedAt:  now.Add(-10 * time.Minute),
		ExpiresAt:  now.Add(-5 * time.Minute),
	}

	store := new(MockOTPStore)
	store.On("FindLatestValid", ctx, "user@example.com", "482913").Return(rec, nil)

	svc := NewOTPManager(store, nil, nil, ManagerOptions{})

	ok, err := svc.Validate(ctx, "user@example.com", "482913")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Expired records are left for the reaper, not deleted here.
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestValidateUnknownAndWrongAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	store.On("FindLatestValid", ctx, mock.Anything, mock.Anything).
		Return(nil, domain.ErrOTPNotFound)

	svc := NewOTPManager(store, nil, nil, ManagerOptions{})

	okUnknown, errUnknown := svc.Validate(ctx, "nobody@example.com", "000000")
	okWrong, errWrong := svc.Validate(ctx, "user@example.com", "999999")

	assert.Equal(t, okUnknown, okWrong)
	assert.Equal(t, errUnknown, errWrong)
	assert.False(t, okUnknown)
	assert.NoError(t, errUnknown)
}

func TestValidateStoreFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	store := new(MockOTPStore)
	store.On("FindLatestValid", ctx, mock.Anything, mock.Anything).
		Return(nil, domain.ErrPersistenceFailure)

	svc := NewOTPManager(store, nil, nil, ManagerOptions{})

	ok, err := svc.Validate(ctx, "user@example.com", "482913")
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailure)
}

func TestExpiryBoundaryAgainstRealStore(t *testing.T) {
	ctx := context.Background()
	repo := memrepo.NewOTPRepository()
	svc := NewOTPManager(repo, nil, nil, ManagerOptions{Window: time.Hour})

	now := time.Now()
	justInside := &domain.OTPRecord{
		ID:         uuid.New(),
		Identifier: "inside@example.com",
		Code:       "111111",
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Minute),
	}
	justExpired := &domain.OTPRecord{
		ID:         uuid.New(),
		Identifier: "expired@example.com",
		Code:       "222222",
		CreatedAt:  now.Add(-time.Hour),
		ExpiresAt:  now.Add(-time.Millisecond),
	}
	assert.NoError(t, repo.Create(ctx, justInside))
	assert.NoError(t, repo.Create(ctx, justExpired))

	ok, err := svc.Validate(ctx, "inside@example.com", "111111")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Validate(ctx, "expired@example.com", "222222")
	assert.NoError(t, err)
	assert.False(t, ok, "a passcode past its expiry never validates")
}

func TestSingleUseAgainstRealStore(t *testing.T) {
	ctx := context.Background()
	repo := memrepo.NewOTPRepository()
	svc := NewOTPManager(repo, nil, nil, ManagerOptions{ServerMode: "test"})

	receipt, err := svc.Issue(ctx, "user@example.com")
	assert.NoError(t, err)

	ok, err := svc.Validate(ctx, "user@example.com", receipt.Code)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Validate(ctx, "user@example.com", receipt.Code)
	assert.NoError(t, err)
	assert.False(t, ok, "a consumed passcode never validates again")
}
