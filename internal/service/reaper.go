// internal/service/reaper.go

package service

import (
	"context"
	"time"

	"tenant-otp-service/internal/domain"
	"tenant-otp-service/internal/metrics"
	"tenant-otp-service/pkg/logger"
)

// Reaper purges expired OTP records on a schedule. Purge is idempotent:
// with nothing newly expired it deletes nothing and reports zero.
type Reaper struct {
	store    domain.OTPStore
	interval time.Duration
}

func NewReaper(store domain.OTPStore, interval time.Duration) *Reaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reaper{store: store, interval: interval}
}

// Purge removes every record whose expiry is at or before now and returns
// the count. Failures are reported to the caller, not retried here; the
// scheduler owns retry policy.
func (r *Reaper) Purge(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.store.DeleteExpired(ctx, now)
	metrics.RecordReap(count, err)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("Reaped ", count, " expired OTP records")
	}
	return count, nil
}

// Run invokes Purge every interval until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logger.Info("OTP reaper running every ", r.interval)

	for {
		select {
		case <-ctx.Done():
			logger.Info("OTP reaper stopped")
			return
		case <-ticker.C:
			if _, err := r.Purge(ctx, time.Now()); err != nil {
				logger.Error("Reaper purge failed: ", err)
			}
		}
	}
}
