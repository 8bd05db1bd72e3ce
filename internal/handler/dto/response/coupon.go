package response

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	DiscountType   string          `json:"discountType"`
	Value          decimal.Decimal `json:"value"`
	MaxDiscount    *money.Amount   `json:"maxDiscount,omitempty"`
	MinOrderAmount money.Amount    `json:"minOrderAmount"`
	UsageLimit     int             `json:"usageLimit"`
	UsedCount      int             `json:"usedCount"`
	ValidFrom      time.Time       `json:"validFrom"`
	ValidTo        time.Time       `json:"validTo"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func FromCouponView(v *queries.CouponView) *CouponResponse {
	return &CouponResponse{
		ID:             v.ID,
		Code:           v.Code,
		DiscountType:   v.DiscountType,
		Value:          v.Value,
		MaxDiscount:    v.MaxDiscount,
		MinOrderAmount: v.MinOrderAmount,
		UsageLimit:     v.UsageLimit,
		UsedCount:      v.UsedCount,
		ValidFrom:      v.ValidFrom,
		ValidTo:        v.ValidTo,
		Status:         v.Status,
		CreatedAt:      v.CreatedAt,
	}
}
