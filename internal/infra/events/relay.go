// Package events moves outbox rows to a message broker. Delivery is at least
// once: an event is marked published only after the broker accepted it.
package events

import (
	"context"
	"log/slog"
	"time"

	"parq-core/internal/pkg/clock"
	"parq-core/internal/usecase/shared"
)

type Relay struct {
	uow       shared.UnitOfWork
	publisher Publisher
	clock     clock.Clock
	batchSize int
	logger    *slog.Logger
}

func NewRelay(uow shared.UnitOfWork, publisher Publisher, clk clock.Clock, batchSize int, logger *slog.Logger) *Relay {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Relay{uow: uow, publisher: publisher, clock: clk, batchSize: batchSize, logger: logger}
}

// RelayOnce publishes one batch in event order. A publish failure ends the
// batch; the events before it stay marked and the rest are retried later.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var (
		published  int
		publishErr error
	)
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		published, publishErr = 0, nil
		pending, err := tx.Outbox().ListPending(ctx, r.batchSize)
		if err != nil {
			return err
		}
		for _, e := range pending {
			if publishErr = r.publisher.Publish(ctx, e); publishErr != nil {
				return nil
			}
			if err := tx.Outbox().MarkPublished(ctx, e.ID, r.clock.Now()); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, publishErr
}

// Run relays every interval until ctx is done.
func (r *Relay) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.RelayOnce(ctx)
			if err != nil {
				r.logger.Warn("outbox relay failed", slog.Int("published", n), slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				r.logger.Debug("outbox relayed", slog.Int("published", n))
			}
		}
	}
}
