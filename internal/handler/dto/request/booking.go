package request

import (
	"time"

	"parq-core/internal/usecase/orchestrator"

	"github.com/google/uuid"
)

type QuoteBookingRequest struct {
	SpotID     uuid.UUID `json:"spotId" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
	CouponCode *string   `json:"couponCode,omitempty"`
	// RateMode is "hourly" (default) or "daily".
	RateMode string `json:"rateMode,omitempty"`
}

func (r QuoteBookingRequest) ToInput() orchestrator.QuoteInput {
	return orchestrator.QuoteInput{
		SpotID:     r.SpotID,
		Start:      r.StartTime,
		End:        r.EndTime,
		CouponCode: r.CouponCode,
		RateMode:   r.RateMode,
	}
}

type CreateBookingRequest struct {
	SpotID     uuid.UUID `json:"spotId" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
	Vehicle    string    `json:"vehicle" binding:"required"`
	CouponCode *string   `json:"couponCode,omitempty"`
	RateMode   string    `json:"rateMode,omitempty"`
}

func (r CreateBookingRequest) ToInput(idempotencyKey string) orchestrator.CreateBookingInput {
	return orchestrator.CreateBookingInput{
		SpotID:         r.SpotID,
		Start:          r.StartTime,
		End:            r.EndTime,
		Vehicle:        r.Vehicle,
		CouponCode:     r.CouponCode,
		RateMode:       r.RateMode,
		IdempotencyKey: idempotencyKey,
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}
