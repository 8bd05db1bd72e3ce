package response

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID                 uuid.UUID    `json:"id"`
	SpotID             uuid.UUID    `json:"spotId"`
	RequesterID        uuid.UUID    `json:"requesterId"`
	Vehicle            string       `json:"vehicle"`
	StartTime          time.Time    `json:"startTime"`
	EndTime            time.Time    `json:"endTime"`
	RateMode           string       `json:"rateMode"`
	Status             string       `json:"status"`
	Subtotal           money.Amount `json:"subtotal"`
	Discount           money.Amount `json:"discount"`
	Fee                money.Amount `json:"fee"`
	Total              money.Amount `json:"total"`
	CouponCode         *string      `json:"couponCode,omitempty"`
	PaymentStatus      string       `json:"paymentStatus"`
	RefundedAmount     money.Amount `json:"refundedAmount"`
	CancellationReason *string      `json:"cancellationReason,omitempty"`
	FailureReason      *string      `json:"failureReason,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:                 v.ID,
		SpotID:             v.SpotID,
		RequesterID:        v.RequesterID,
		Vehicle:            v.Vehicle,
		StartTime:          v.StartTime,
		EndTime:            v.EndTime,
		RateMode:           v.RateMode,
		Status:             v.Status,
		Subtotal:           v.Subtotal,
		Discount:           v.Discount,
		Fee:                v.Fee,
		Total:              v.Total,
		CouponCode:         v.CouponCode,
		PaymentStatus:      v.PaymentStatus,
		RefundedAmount:     v.RefundedAmount,
		CancellationReason: v.CancellationReason,
		FailureReason:      v.FailureReason,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

type QuoteResponse struct {
	RateMode      string       `json:"rateMode"`
	BillableUnits int64        `json:"billableUnits"`
	UnitPrice     money.Amount `json:"unitPrice"`
	Subtotal      money.Amount `json:"subtotal"`
	Discount      money.Amount `json:"discount"`
	Fee           money.Amount `json:"fee"`
	Total         money.Amount `json:"total"`
	CouponCode    *string      `json:"couponCode,omitempty"`
}

func FromQuoteView(v *queries.QuoteView) *QuoteResponse {
	return &QuoteResponse{
		RateMode:      v.RateMode,
		BillableUnits: v.BillableUnits,
		UnitPrice:     v.UnitPrice,
		Subtotal:      v.Subtotal,
		Discount:      v.Discount,
		Fee:           v.Fee,
		Total:         v.Total,
		CouponCode:    v.CouponCode,
	}
}

type PageResponse[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

// FromPage converts every item of a page with conv.
func FromPage[V, T any](p queries.Page[V], conv func(V) T) PageResponse[T] {
	out := PageResponse[T]{Items: make([]T, 0, len(p.Items))}
	for _, item := range p.Items {
		out.Items = append(out.Items, conv(item))
	}
	if p.NextCursor != nil {
		after := p.NextCursor.After
		out.NextCursor = &after
	}
	return out
}
