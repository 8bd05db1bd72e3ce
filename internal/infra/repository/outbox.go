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
	"github.com/jackc/pgx/v5/pgtype"
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(db db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Append(ctx context.Context, e shared.OutboxEvent) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO outbox (id, topic, aggregate_id, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Topic, e.AggregateID, e.Payload, e.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}

// ListPending returns unpublished events in the order they were written.
// Rows claimed by a concurrent relay are skipped.
func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]shared.OutboxEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, topic, aggregate_id, payload, created_at, published_at FROM outbox
		WHERE published_at IS NULL ORDER BY seq LIMIT $1 FOR UPDATE SKIP LOCKED`,
		limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list pending outbox events", err)
	}
	defer rows.Close()

	var out []shared.OutboxEvent
	for rows.Next() {
		var (
			e           shared.OutboxEvent
			publishedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&e.ID, &e.Topic, &e.AggregateID, &e.Payload, &e.CreatedAt, &publishedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		e.PublishedAt = pgconv.TimePtrFromPgtype(publishedAt)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE outbox SET published_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to mark outbox event published", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Wrapf(errs.ErrNotFound, "outbox event %s", id)
	}
	return nil
}
