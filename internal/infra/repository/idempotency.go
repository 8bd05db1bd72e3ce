package repository

import (
	"context"
	"time"

	"parq-core/internal/infra"
	"parq-core/internal/infra/db"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/pgconv"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(db db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string, actorID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec := shared.IdempotencyRecord{Key: key, ActorID: actorID}
	var status string
	err := r.db.QueryRow(ctx,
		`SELECT request_hash, booking_id, status, expires_at, created_at
		FROM idempotency_keys WHERE key = $1 AND actor_id = $2`,
		key, actorID).
		Scan(&rec.RequestHash, &rec.BookingID, &status, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Wrapf(errs.ErrNotFound, "idempotency key %s", key)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rec.Status = shared.IdempotencyStatus(status)
	rec.ExpiresAt = rec.ExpiresAt.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, rec shared.IdempotencyRecord) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO idempotency_keys (key, actor_id, request_hash, booking_id, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key, actor_id) DO NOTHING`,
		rec.Key, rec.ActorID, rec.RequestHash, rec.BookingID, string(rec.Status), rec.ExpiresAt, rec.CreatedAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key string, actorID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE idempotency_keys SET status = $3, completed_at = $4 WHERE key = $1 AND actor_id = $2`,
		key, actorID, string(shared.IdempotencyCompleted), at)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Wrapf(errs.ErrNotFound, "idempotency key %s", key)
	}
	return nil
}

func (r *IdempotencyRepository) Delete(ctx context.Context, key string, actorID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = $1 AND actor_id = $2`, key, actorID); err != nil {
		return infra.WrapRepoErr("failed to delete idempotency key", err)
	}
	return nil
}
