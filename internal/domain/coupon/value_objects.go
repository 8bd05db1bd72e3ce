package coupon

import (
	"regexp"
	"strings"

	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCouponCode      = errs.Validation("invalid coupon code format")
	ErrInvalidDiscountAmount  = errs.Validation("flat discount must be positive")
	ErrInvalidDiscountPercent = errs.Validation("percentage discount must be between 0 and 100")
	ErrInvalidDiscountType    = errs.Validation("discount type must be percentage or flat")
	ErrMaxDiscountOnFlat      = errs.Validation("max discount applies only to percentage coupons")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

func NewDiscountType(s string) (DiscountType, error) {
	switch t := DiscountType(strings.ToLower(strings.TrimSpace(s))); t {
	case DiscountPercentage, DiscountFlat:
		return t, nil
	default:
		return "", ErrInvalidDiscountType
	}
}

// Discount is either a flat amount or a percentage with an optional cap.
type Discount struct {
	kind        DiscountType
	flat        money.Amount
	percent     decimal.Decimal
	maxDiscount *money.Amount
}

var hundred = decimal.NewFromInt(100)

func NewFlatDiscount(amount money.Amount) (Discount, error) {
	if !amount.IsPositive() {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: DiscountFlat, flat: amount}, nil
}

func NewPercentageDiscount(percent decimal.Decimal, maxDiscount *money.Amount) (Discount, error) {
	if !percent.IsPositive() || percent.GreaterThan(hundred) {
		return Discount{}, ErrInvalidDiscountPercent
	}
	if maxDiscount != nil && maxDiscount.IsNegative() {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{kind: DiscountPercentage, percent: percent, maxDiscount: maxDiscount}, nil
}

// NewDiscount builds a discount from its stored parts. value is rupees for
// flat coupons and a percent for percentage coupons.
func NewDiscount(kind DiscountType, value decimal.Decimal, maxDiscount *money.Amount) (Discount, error) {
	switch kind {
	case DiscountFlat:
		if maxDiscount != nil {
			return Discount{}, ErrMaxDiscountOnFlat
		}
		amount, err := money.FromDecimal(value)
		if err != nil {
			return Discount{}, err
		}
		return NewFlatDiscount(amount)
	case DiscountPercentage:
		return NewPercentageDiscount(value, maxDiscount)
	default:
		return Discount{}, ErrInvalidDiscountType
	}
}

// Apply never discounts more than subtotal.
func (d Discount) Apply(subtotal money.Amount) money.Amount {
	var off money.Amount
	switch d.kind {
	case DiscountFlat:
		off = d.flat
	case DiscountPercentage:
		off = subtotal.Percent(d.percent)
		if d.maxDiscount != nil {
			off = money.Min(off, *d.maxDiscount)
		}
	}
	return money.Min(off, subtotal)
}

func (d Discount) Type() DiscountType { return d.kind }

// Value is the stored magnitude: rupees for flat, percent for percentage.
func (d Discount) Value() decimal.Decimal {
	if d.kind == DiscountFlat {
		return d.flat.Decimal()
	}
	return d.percent
}

func (d Discount) MaxDiscount() *money.Amount { return d.maxDiscount }
