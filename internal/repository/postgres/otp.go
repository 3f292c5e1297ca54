// internal/repository/postgres/otp.go

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tenant-otp-service/internal/domain"
	"tenant-otp-service/pkg/logger"
)

// OTPRepository is the durable store for issued passcodes, backed by
// Postgres. Records are insert-and-delete only; there is no update path.
type OTPRepository struct {
	pool *pgxpool.Pool
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func NewOTPRepository(pool *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

func (r *OTPRepository) Create(ctx context.Context, rec *domain.OTPRecord) error {
	query, args, err := psql.Insert("otp_codes").
		Columns("id", "identifier", "code", "created_at", "expires_at").
		Values(rec.ID, rec.Identifier, rec.Code, rec.CreatedAt, rec.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return persistence("insert otp record", err)
	}

	logger.Debug("Stored OTP record ", rec.ID)
	return nil
}

// FindLatestValid matches identifier and code exactly and returns the newest
// record. created_at descending with id as tie-break makes the duplicate-code
// case deterministic: the most recently issued record wins.
func (r *OTPRepository) FindLatestValid(ctx context.Context, identifier, code string) (*domain.OTPRecord, error) {
	query, args, err := psql.Select("id", "identifier", "code", "created_at", "expires_at").
		From("otp_codes").
		Where(sq.Eq{"identifier": identifier, "code": code}).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rec := &domain.OTPRecord{}
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&rec.ID, &rec.Identifier, &rec.Code, &rec.CreatedAt, &rec.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOTPNotFound
		}
		return nil, persistence("query otp record", err)
	}

	return rec, nil
}

// Delete removes the record if it still exists. A false result means another
// caller (validator or reaper) got there first.
func (r *OTPRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query, args, err := psql.Delete("otp_codes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, persistence("delete otp record", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *OTPRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := psql.Delete("otp_codes").
		Where(sq.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, persistence("delete expired otp records", err)
	}

	return tag.RowsAffected(), nil
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistenceFailure, op, err)
}
