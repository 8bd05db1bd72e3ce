package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"parq-core/internal/domain/auth"
	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/cancellation"
	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/clock"
	"parq-core/internal/pkg/retry"
	"parq-core/internal/usecase/allocator"
	"parq-core/internal/usecase/ledger"
	"parq-core/internal/usecase/pricing"
	"parq-core/internal/usecase/queries"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=orchestrator.go -destination=../../../tests/mock/orchestrator/commands_mock.go -package=orchestratormock -build_constraint=unit Commands

// Commands is every mutation the core accepts. Nothing else writes to the
// store.
type Commands interface {
	QuoteBooking(ctx context.Context, actor auth.Actor, in QuoteInput) (*queries.QuoteView, error)
	QueryAvailability(ctx context.Context, spotID uuid.UUID, start, end time.Time) (*queries.AvailabilityView, error)
	CreateBooking(ctx context.Context, actor auth.Actor, in CreateBookingInput) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, reason string) (*queries.BookingView, error)
	CompleteBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	CreateSpot(ctx context.Context, actor auth.Actor, in CreateSpotInput) (*queries.SpotView, error)
	UpdateSpotCapacity(ctx context.Context, actor auth.Actor, spotID uuid.UUID, capacity int) (*queries.SpotView, error)
	SetSpotActive(ctx context.Context, actor auth.Actor, spotID uuid.UUID, active bool) (*queries.SpotView, error)
	CreateCoupon(ctx context.Context, actor auth.Actor, in CreateCouponInput) (*queries.CouponView, error)
	TopUpWallet(ctx context.Context, actor auth.Actor, accountID uuid.UUID, amount money.Amount, description string) (*queries.TransactionView, error)
}

type Settings struct {
	Cancellation    cancellation.Policy
	CommissionBPS   int64
	PlatformAccount *uuid.UUID
	PendingTimeout  time.Duration
	IdempotencyTTL  time.Duration
	Retry           retry.Policy
}

type Orchestrator struct {
	uow      shared.UnitOfWork
	alloc    *allocator.Allocator
	ledger   *ledger.Service
	pricing  *pricing.Engine
	authz    Authorizer
	clock    clock.Clock
	settings Settings
	logger   *slog.Logger
}

func New(
	uow shared.UnitOfWork,
	alloc *allocator.Allocator,
	ledgerSvc *ledger.Service,
	engine *pricing.Engine,
	authz Authorizer,
	clk clock.Clock,
	settings Settings,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		uow:      uow,
		alloc:    alloc,
		ledger:   ledgerSvc,
		pricing:  engine,
		authz:    authz,
		clock:    clk,
		settings: settings,
		logger:   logger,
	}
}

// unit runs fn as one atomic unit, retrying lost optimistic races.
func (o *Orchestrator) unit(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return retry.Do(ctx, o.settings.Retry, func() error {
		return o.uow.Within(ctx, fn)
	})
}

func (o *Orchestrator) QuoteBooking(ctx context.Context, actor auth.Actor, in QuoteInput) (*queries.QuoteView, error) {
	req, err := in.request()
	if err != nil {
		return nil, err
	}
	q, err := o.pricing.QuoteStandalone(ctx, req, o.clock.Now())
	if err != nil {
		return nil, err
	}
	return queries.NewQuoteView(q), nil
}

func (o *Orchestrator) QueryAvailability(ctx context.Context, spotID uuid.UUID, start, end time.Time) (*queries.AvailabilityView, error) {
	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return nil, err
	}
	a, err := o.alloc.Query(ctx, spotID, slot)
	if err != nil {
		return nil, err
	}
	return &queries.AvailabilityView{
		SpotID:    a.SpotID,
		StartTime: a.Slot.Start(),
		EndTime:   a.Slot.End(),
		Capacity:  a.Capacity,
		Available: a.Available,
	}, nil
}

// payout credits the host with amount net of commission and the platform
// account, when configured, with the commission.
func (o *Orchestrator) payout(ctx context.Context, tx shared.Tx, hostID, bookingID uuid.UUID, amount money.Amount) error {
	if !amount.IsPositive() {
		return nil
	}
	commission := amount.BasisPoints(o.settings.CommissionBPS)
	if err := o.ledger.Credit(ctx, tx, hostID, &bookingID, amount.Sub(commission), "payout for booking "+bookingID.String()); err != nil {
		return err
	}
	if o.settings.PlatformAccount == nil {
		return nil
	}
	return o.ledger.Credit(ctx, tx, *o.settings.PlatformAccount, &bookingID, commission, "commission for booking "+bookingID.String())
}
