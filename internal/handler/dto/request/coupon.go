package request

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/usecase/orchestrator"

	"github.com/shopspring/decimal"
)

type CreateCouponRequest struct {
	Code string `json:"code" binding:"required"`
	// DiscountType is "percentage" or "flat".
	DiscountType   string          `json:"discountType" binding:"required"`
	Value          decimal.Decimal `json:"value"`
	MaxDiscount    *money.Amount   `json:"maxDiscount,omitempty"`
	MinOrderAmount money.Amount    `json:"minOrderAmount"`
	UsageLimit     int             `json:"usageLimit" binding:"required,min=1"`
	ValidFrom      time.Time       `json:"validFrom" binding:"required"`
	ValidTo        time.Time       `json:"validTo" binding:"required"`
}

func (r CreateCouponRequest) ToInput() orchestrator.CreateCouponInput {
	return orchestrator.CreateCouponInput{
		Code:           r.Code,
		DiscountType:   r.DiscountType,
		Value:          r.Value,
		MaxDiscount:    r.MaxDiscount,
		MinOrderAmount: r.MinOrderAmount,
		UsageLimit:     r.UsageLimit,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
	}
}
