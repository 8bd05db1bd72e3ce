package pricing

import (
	"context"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	dompricing "parq-core/internal/domain/pricing"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type QuoteRequest struct {
	SpotID     uuid.UUID
	Slot       booking.TimeSlot
	CouponCode *string
	RateMode   booking.RateMode
}

// Engine quotes against the store. Quoting never consumes coupon usage.
type Engine struct {
	uow  shared.UnitOfWork
	calc dompricing.Calculator
}

func NewEngine(uow shared.UnitOfWork, calc dompricing.Calculator) *Engine {
	return &Engine{uow: uow, calc: calc}
}

// Quote prices req inside tx.
func (e *Engine) Quote(ctx context.Context, tx shared.Tx, req QuoteRequest, now time.Time) (*dompricing.Quote, error) {
	sp, err := tx.Spots().FindByID(ctx, req.SpotID)
	if err != nil {
		return nil, err
	}

	var cp *coupon.Coupon
	if req.CouponCode != nil {
		cp, err = lookupCoupon(ctx, tx, *req.CouponCode)
		if err != nil {
			return nil, err
		}
	}

	q, err := e.calc.Calculate(sp, req.Slot, req.RateMode, cp, now)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// QuoteStandalone prices req in its own read-only unit.
func (e *Engine) QuoteStandalone(ctx context.Context, req QuoteRequest, now time.Time) (*dompricing.Quote, error) {
	var q *dompricing.Quote
	err := e.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		q, err = e.Quote(ctx, tx, req, now)
		return err
	})
	return q, err
}

// lookupCoupon maps malformed and unknown codes to ErrCouponInvalid.
func lookupCoupon(ctx context.Context, tx shared.Tx, raw string) (*coupon.Coupon, error) {
	code, err := coupon.NewCouponCode(raw)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrCouponInvalid, "coupon %q", raw)
	}
	cp, err := tx.Coupons().FindByCode(ctx, code)
	if err != nil {
		if errs.Is(err, errs.ErrCouponNotFound) {
			return nil, errs.Wrapf(errs.ErrCouponInvalid, "coupon %s", code)
		}
		return nil, err
	}
	return cp, nil
}
