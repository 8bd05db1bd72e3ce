package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"parq-core/internal/domain/auth"
	"parq-core/internal/domain/booking"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"
)

const sweepBatch = 100

type SweepResult struct {
	Completed int
	Failed    int
}

// SweepExpired completes confirmed bookings whose slot has ended and fails
// pending bookings older than the pending timeout.
func (o *Orchestrator) SweepExpired(ctx context.Context) (SweepResult, error) {
	var (
		ended []*booking.Booking
		stale []*booking.Booking
	)
	now := o.clock.Now()
	err := o.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if ended, err = tx.Bookings().ListConfirmedEndedBefore(ctx, now, sweepBatch); err != nil {
			return err
		}
		if o.settings.PendingTimeout > 0 {
			stale, err = tx.Bookings().ListPendingCreatedBefore(ctx, now.Add(-o.settings.PendingTimeout), sweepBatch)
		}
		return err
	})
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	system := auth.SystemActor()
	for _, b := range ended {
		if _, err := o.CompleteBooking(ctx, system, b.ID()); err != nil {
			if errs.Is(err, errs.ErrAlreadyTerminal) {
				continue
			}
			o.logger.Warn("sweep completion failed",
				slog.String("booking_id", b.ID().String()),
				slog.String("error", err.Error()))
			continue
		}
		result.Completed++
	}
	for _, b := range stale {
		if o.fail(ctx, b.ID(), "", b.RequesterID(), errs.ErrPendingTimeout) {
			result.Failed++
		}
	}

	if result.Completed > 0 || result.Failed > 0 {
		o.logger.Info("sweep finished",
			slog.Int("completed", result.Completed),
			slog.Int("failed", result.Failed))
	}
	return result, nil
}

// RunSweeper sweeps every interval until ctx is done.
func (o *Orchestrator) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := o.SweepExpired(ctx); err != nil {
				o.logger.Error("sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
