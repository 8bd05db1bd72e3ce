package orchestrator

import (
	"context"
	"log/slog"

	"parq-core/internal/domain/auth"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/money"
	"parq-core/internal/domain/spot"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/allocator"
	"parq-core/internal/usecase/queries"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

func (o *Orchestrator) CreateSpot(ctx context.Context, actor auth.Actor, in CreateSpotInput) (*queries.SpotView, error) {
	if err := o.authz.Authorize(ctx, actor, ActionCreateSpot, Resource{}); err != nil {
		return nil, err
	}
	hostID := actor.ID
	if actor.IsAdmin() && in.HostID != nil {
		hostID = *in.HostID
	}

	sp, err := spot.NewSpot(hostID, in.Name, in.Capacity, in.PricePerHour, in.PricePerDay, o.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Spots().Create(ctx, sp)
	}); err != nil {
		return nil, err
	}

	o.logger.Info("spot created",
		slog.String("spot_id", sp.ID().String()),
		slog.String("host_id", hostID.String()),
		slog.Int("capacity", sp.TotalCapacity()))
	return queries.NewSpotView(sp), nil
}

// UpdateSpotCapacity rejects a capacity below the peak of reservations that
// have not ended yet.
func (o *Orchestrator) UpdateSpotCapacity(ctx context.Context, actor auth.Actor, spotID uuid.UUID, capacity int) (*queries.SpotView, error) {
	return o.manageSpot(ctx, actor, spotID, func(ctx context.Context, tx shared.Tx, sp *spot.Spot) error {
		now := o.clock.Now()
		peak, err := allocator.PeakFrom(ctx, tx, sp.ID(), now)
		if err != nil {
			return err
		}
		if capacity < peak {
			return errs.Wrapf(errs.ErrCapacityExceeded, "capacity %d is below %d live reservations", capacity, peak)
		}
		return sp.ChangeCapacity(capacity, now)
	})
}

// SetSpotActive stops or resumes new reservations. Existing ones stay.
func (o *Orchestrator) SetSpotActive(ctx context.Context, actor auth.Actor, spotID uuid.UUID, active bool) (*queries.SpotView, error) {
	return o.manageSpot(ctx, actor, spotID, func(_ context.Context, _ shared.Tx, sp *spot.Spot) error {
		sp.SetActive(active, o.clock.Now())
		return nil
	})
}

func (o *Orchestrator) manageSpot(
	ctx context.Context,
	actor auth.Actor,
	spotID uuid.UUID,
	change func(ctx context.Context, tx shared.Tx, sp *spot.Spot) error,
) (*queries.SpotView, error) {
	var updated *spot.Spot
	err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		sp, err := tx.Spots().FindByIDForUpdate(ctx, spotID)
		if err != nil {
			return err
		}
		host := sp.HostID()
		if err := o.authz.Authorize(ctx, actor, ActionManageSpot, Resource{HostID: &host}); err != nil {
			return err
		}
		if err := change(ctx, tx, sp); err != nil {
			return err
		}
		if err := tx.Spots().Update(ctx, sp); err != nil {
			return err
		}
		updated = sp
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.alloc.Invalidate(ctx, spotID)

	o.logger.Info("spot updated",
		slog.String("spot_id", spotID.String()),
		slog.Int("capacity", updated.TotalCapacity()),
		slog.Bool("active", updated.IsActive()))
	return queries.NewSpotView(updated), nil
}

func (o *Orchestrator) CreateCoupon(ctx context.Context, actor auth.Actor, in CreateCouponInput) (*queries.CouponView, error) {
	if err := o.authz.Authorize(ctx, actor, ActionCreateCoupon, Resource{}); err != nil {
		return nil, err
	}

	code, err := coupon.NewCouponCode(in.Code)
	if err != nil {
		return nil, err
	}
	kind, err := coupon.NewDiscountType(in.DiscountType)
	if err != nil {
		return nil, err
	}
	discount, err := coupon.NewDiscount(kind, in.Value, in.MaxDiscount)
	if err != nil {
		return nil, err
	}
	cp, err := coupon.NewCoupon(code, discount, in.MinOrderAmount, in.UsageLimit, in.ValidFrom, in.ValidTo, o.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Coupons().Create(ctx, cp)
	}); err != nil {
		return nil, err
	}

	o.logger.Info("coupon created", slog.String("code", code.String()), slog.Int("usage_limit", in.UsageLimit))
	return queries.NewCouponView(cp), nil
}

// TopUpWallet records money arriving from the external payment rail.
func (o *Orchestrator) TopUpWallet(ctx context.Context, actor auth.Actor, accountID uuid.UUID, amount money.Amount, description string) (*queries.TransactionView, error) {
	if err := o.authz.Authorize(ctx, actor, ActionTopUpWallet, Resource{OwnerID: &accountID}); err != nil {
		return nil, err
	}
	txn, err := o.ledger.TopUp(ctx, accountID, amount, description)
	if err != nil {
		return nil, err
	}
	return queries.NewTransactionView(*txn), nil
}
