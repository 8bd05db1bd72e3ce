package coupon

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidUsageLimit = errs.Validation("usage limit must be at least 1")
	ErrInvalidWindow     = errs.Validation("valid_from must be before valid_to")
	ErrInvalidStatus     = errs.Validation("invalid coupon status")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
	StatusDisabled Status = "disabled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusDisabled:
		return true
	default:
		return false
	}
}

type Coupon struct {
	id             uuid.UUID
	code           Code
	discount       Discount
	minOrderAmount money.Amount
	usageLimit     int
	usedCount      int
	validFrom      time.Time
	validTo        time.Time
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func NewCoupon(
	code Code,
	discount Discount,
	minOrderAmount money.Amount,
	usageLimit int,
	validFrom, validTo time.Time,
	now time.Time,
) (*Coupon, error) {
	if usageLimit < 1 {
		return nil, ErrInvalidUsageLimit
	}
	if !validFrom.Before(validTo) {
		return nil, ErrInvalidWindow
	}
	if minOrderAmount.IsNegative() {
		return nil, money.ErrNegativeAmount
	}

	return &Coupon{
		id:             uuid.New(),
		code:           code,
		discount:       discount,
		minOrderAmount: minOrderAmount,
		usageLimit:     usageLimit,
		validFrom:      validFrom.UTC(),
		validTo:        validTo.UTC(),
		status:         StatusActive,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructCoupon(
	id uuid.UUID,
	code Code,
	discount Discount,
	minOrderAmount money.Amount,
	usageLimit, usedCount int,
	validFrom, validTo time.Time,
	status Status,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:             id,
		code:           code,
		discount:       discount,
		minOrderAmount: minOrderAmount,
		usageLimit:     usageLimit,
		usedCount:      usedCount,
		validFrom:      validFrom,
		validTo:        validTo,
		status:         status,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Validate checks applicability to an order of subtotal at time t. The order
// of checks fixes which error a caller sees when several apply.
func (c *Coupon) Validate(t time.Time, subtotal money.Amount) error {
	switch {
	case c.status == StatusDisabled:
		return errs.Wrapf(errs.ErrCouponInvalid, "coupon %s is disabled", c.code)
	case t.Before(c.validFrom):
		return errs.Wrapf(errs.ErrCouponInvalid, "coupon %s is not valid until %s", c.code, c.validFrom.Format(time.RFC3339))
	case c.status == StatusExpired || t.After(c.validTo):
		return errs.Wrapf(errs.ErrCouponExpired, "coupon %s expired", c.code)
	case c.usedCount >= c.usageLimit:
		return errs.Wrapf(errs.ErrCouponExhausted, "coupon %s used %d/%d", c.code, c.usedCount, c.usageLimit)
	case subtotal < c.minOrderAmount:
		return errs.Wrapf(errs.ErrMinOrderNotMet, "order %s below minimum %s", subtotal, c.minOrderAmount)
	}
	return nil
}

func (c *Coupon) DiscountFor(subtotal money.Amount) money.Amount {
	return c.discount.Apply(subtotal)
}

// Redeem consumes one use. Stores persist it with a guarded increment.
func (c *Coupon) Redeem(now time.Time) error {
	if c.usedCount >= c.usageLimit {
		return errs.Wrapf(errs.ErrCouponExhausted, "coupon %s used %d/%d", c.code, c.usedCount, c.usageLimit)
	}
	c.usedCount++
	c.updatedAt = now
	return nil
}

func (c *Coupon) SetStatus(s Status, now time.Time) error {
	if !s.IsValid() {
		return ErrInvalidStatus
	}
	c.status = s
	c.updatedAt = now
	return nil
}

func (c *Coupon) ID() uuid.UUID                { return c.id }
func (c *Coupon) Code() Code                   { return c.code }
func (c *Coupon) Discount() Discount           { return c.discount }
func (c *Coupon) MinOrderAmount() money.Amount { return c.minOrderAmount }
func (c *Coupon) UsageLimit() int              { return c.usageLimit }
func (c *Coupon) UsedCount() int               { return c.usedCount }
func (c *Coupon) ValidFrom() time.Time         { return c.validFrom }
func (c *Coupon) ValidTo() time.Time           { return c.validTo }
func (c *Coupon) Status() Status               { return c.status }
func (c *Coupon) CreatedAt() time.Time         { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time         { return c.updatedAt }
