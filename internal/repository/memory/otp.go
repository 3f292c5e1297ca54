// internal/repository/memory/otp.go

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tenant-otp-service/internal/domain"
)

type storedRecord struct {
	rec *domain.OTPRecord
	seq uint64
}

// OTPRepository keeps records in process memory. Used in test mode and as
// the concurrency reference: one mutex serializes all operations, so a
// concurrent DeleteExpired and FindLatestValid/Delete can never observe a
// record mid-removal.
type OTPRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]*storedRecord
	nextSeq uint64
}

func NewOTPRepository() *OTPRepository {
	return &OTPRepository{
		records: make(map[uuid.UUID]*storedRecord),
	}
}

func (r *OTPRepository) Create(_ context.Context, rec *domain.OTPRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *rec
	r.nextSeq++
	r.records[rec.ID] = &storedRecord{rec: &clone, seq: r.nextSeq}
	return nil
}

// FindLatestValid picks the newest matching record; the insertion sequence
// breaks CreatedAt ties the same way the Postgres id tie-break does.
func (r *OTPRepository) FindLatestValid(_ context.Context, identifier, code string) (*domain.OTPRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *storedRecord
	for _, sr := range r.records {
		if sr.rec.Identifier != identifier || sr.rec.Code != code {
			continue
		}
		if best == nil || newer(sr, best) {
			best = sr
		}
	}

	if best == nil {
		return nil, domain.ErrOTPNotFound
	}

	clone := *best.rec
	return &clone, nil
}

func (r *OTPRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *OTPRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, sr := range r.records {
		if sr.rec.Expired(now) {
			delete(r.records, id)
			removed++
		}
	}
	return removed, nil
}

// Count reports live records; used by tests and the health surface.
func (r *OTPRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func newer(a, b *storedRecord) bool {
	if a.rec.CreatedAt.Equal(b.rec.CreatedAt) {
		return a.seq > b.seq
	}
	return a.rec.CreatedAt.After(b.rec.CreatedAt)
}
