//go:build unit || e2e

package builder

import (
	"time"

	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponBuilder struct {
	ID          uuid.UUID
	Code        string
	Type        coupon.DiscountType
	Value       decimal.Decimal
	MaxDiscount *money.Amount
	MinOrder    money.Amount
	UsageLimit  int
	UsedCount   int
	ValidFrom   time.Time
	ValidTo     time.Time
	Status      coupon.Status
	CreatedAt   time.Time
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:         uuid.New(),
		Code:       "PARQ20",
		Type:       coupon.DiscountPercentage,
		Value:      decimal.NewFromInt(20),
		UsageLimit: 100,
		ValidFrom:  At(0, 0).AddDate(0, -1, 0),
		ValidTo:    At(0, 0).AddDate(0, 1, 0),
		Status:     coupon.StatusActive,
		CreatedAt:  At(0, 0).AddDate(0, -1, 0),
	}
}

func (c *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(c)
	return c
}

func (c *CouponBuilder) WithCode(code string) *CouponBuilder {
	c.Code = code
	return c
}

func (c *CouponBuilder) WithFlat(rupees int64) *CouponBuilder {
	c.Type = coupon.DiscountFlat
	c.Value = decimal.NewFromInt(rupees)
	c.MaxDiscount = nil
	return c
}

func (c *CouponBuilder) WithPercent(pct int64, maxRupees *int64) *CouponBuilder {
	c.Type = coupon.DiscountPercentage
	c.Value = decimal.NewFromInt(pct)
	c.MaxDiscount = nil
	if maxRupees != nil {
		m := money.FromRupees(*maxRupees)
		c.MaxDiscount = &m
	}
	return c
}

func (c *CouponBuilder) WithMinOrder(a money.Amount) *CouponBuilder {
	c.MinOrder = a
	return c
}

func (c *CouponBuilder) WithUsage(limit, used int) *CouponBuilder {
	c.UsageLimit = limit
	c.UsedCount = used
	return c
}

func (c *CouponBuilder) WithWindow(from, to time.Time) *CouponBuilder {
	c.ValidFrom = from
	c.ValidTo = to
	return c
}

func (c *CouponBuilder) WithStatus(s coupon.Status) *CouponBuilder {
	c.Status = s
	return c
}

func (c *CouponBuilder) BuildDomain() *coupon.Coupon {
	d, err := coupon.NewDiscount(c.Type, c.Value, c.MaxDiscount)
	if err != nil {
		panic(err)
	}
	return coupon.ReconstructCoupon(
		c.ID, coupon.Code(c.Code), d, c.MinOrder,
		c.UsageLimit, c.UsedCount,
		c.ValidFrom, c.ValidTo, c.Status,
		c.CreatedAt, c.CreatedAt,
	)
}
