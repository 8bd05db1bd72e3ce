package pricing

import (
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/money"
	"parq-core/internal/domain/spot"
	"parq-core/internal/pkg/errs"
)

type Quote struct {
	RateMode      booking.RateMode
	BillableUnits int64
	UnitPrice     money.Amount
	Subtotal      money.Amount
	Discount      money.Amount
	Fee           money.Amount
	Total         money.Amount
	CouponCode    *string
}

func (q Quote) Charges() booking.Charges {
	return booking.Charges{
		Subtotal: q.Subtotal,
		Discount: q.Discount,
		Fee:      q.Fee,
		Total:    q.Total,
	}
}

// Calculator prices a stay. Fee is a flat amount added after the discount.
type Calculator struct {
	Fee money.Amount
}

func NewCalculator(fee money.Amount) Calculator {
	return Calculator{Fee: fee}
}

// BillableUnits rounds any partial unit up: 61 minutes is two hours.
func BillableUnits(d time.Duration, unit time.Duration) int64 {
	n := int64(d / unit)
	if d%unit != 0 {
		n++
	}
	return n
}

func (c Calculator) Subtotal(s *spot.Spot, slot booking.TimeSlot, mode booking.RateMode) (units int64, unitPrice, subtotal money.Amount, err error) {
	switch mode {
	case booking.RateHourly:
		units = BillableUnits(slot.Duration(), time.Hour)
		unitPrice = s.PricePerHour()
	case booking.RateDaily:
		if s.PricePerDay() == nil {
			return 0, 0, 0, errs.Wrapf(errs.ErrDayRateUnavailable, "spot %s", s.ID())
		}
		units = BillableUnits(slot.Duration(), 24*time.Hour)
		unitPrice = *s.PricePerDay()
	default:
		return 0, 0, 0, booking.ErrInvalidRateMode
	}
	subtotal, err = unitPrice.Times(units)
	if err != nil {
		return 0, 0, 0, err
	}
	return units, unitPrice, subtotal, nil
}

// Calculate validates c against the subtotal when given. A nil coupon means
// no code was supplied; callers map unknown codes to ErrCouponInvalid first.
func (c Calculator) Calculate(s *spot.Spot, slot booking.TimeSlot, mode booking.RateMode, cp *coupon.Coupon, now time.Time) (Quote, error) {
	units, unitPrice, subtotal, err := c.Subtotal(s, slot, mode)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		RateMode:      mode,
		BillableUnits: units,
		UnitPrice:     unitPrice,
		Subtotal:      subtotal,
		Fee:           c.Fee,
	}
	if cp != nil {
		if err := cp.Validate(now, subtotal); err != nil {
			return Quote{}, err
		}
		code := cp.Code().String()
		q.CouponCode = &code
		q.Discount = cp.DiscountFor(subtotal)
	}
	total, err := q.Subtotal.Sub(q.Discount).Plus(q.Fee)
	if err != nil {
		return Quote{}, err
	}
	q.Total = total
	return q, nil
}
