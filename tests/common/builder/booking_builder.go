//go:build unit || e2e

package builder

import (
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/money"
	"parq-core/internal/handler/dto/request"
	"parq-core/internal/usecase/queries"

	"github.com/google/uuid"
)

// At returns h:m on a fixed future day in UTC.
func At(h, m int) time.Time {
	return time.Date(2030, time.January, 15, h, m, 0, 0, time.UTC)
}

type BookingBuilder struct {
	ID                 uuid.UUID
	SpotID             uuid.UUID
	RequesterID        uuid.UUID
	Vehicle            string
	Start              time.Time
	End                time.Time
	RateMode           booking.RateMode
	Status             booking.Status
	Charges            booking.Charges
	CouponCode         *string
	PaymentStatus      booking.PaymentStatus
	RefundedAmount     money.Amount
	CancellationReason *string
	FailureReason      *string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewBookingBuilder() *BookingBuilder {
	created := At(0, 0).Add(-24 * time.Hour)
	return &BookingBuilder{
		ID:            uuid.New(),
		SpotID:        uuid.New(),
		RequesterID:   uuid.New(),
		Vehicle:       "KA01 AB 1234",
		Start:         At(10, 0),
		End:           At(12, 0),
		RateMode:      booking.RateHourly,
		Status:        booking.StatusPending,
		PaymentStatus: booking.PaymentUnpaid,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithSlot(start, end time.Time) *BookingBuilder {
	b.Start = start
	b.End = end
	return b
}

func (b *BookingBuilder) WithStatus(s booking.Status) *BookingBuilder {
	b.Status = s
	return b
}

func (b *BookingBuilder) WithSpot(id uuid.UUID) *BookingBuilder {
	b.SpotID = id
	return b
}

func (b *BookingBuilder) WithRequester(id uuid.UUID) *BookingBuilder {
	b.RequesterID = id
	return b
}

func (b *BookingBuilder) WithCoupon(code string) *BookingBuilder {
	b.CouponCode = &code
	return b
}

// WithHeldTotal prices the booking at total paise with funds held.
func (b *BookingBuilder) WithHeldTotal(paise int64) *BookingBuilder {
	total := money.FromPaise(paise)
	b.Charges = booking.Charges{Subtotal: total, Total: total}
	b.PaymentStatus = booking.PaymentHeld
	return b
}

// Build methods
func (b *BookingBuilder) BuildSnapshot() booking.Snapshot {
	return booking.Snapshot{
		ID:                 b.ID,
		SpotID:             b.SpotID,
		RequesterID:        b.RequesterID,
		Vehicle:            b.Vehicle,
		StartTime:          b.Start,
		EndTime:            b.End,
		RateMode:           b.RateMode,
		Status:             b.Status,
		Subtotal:           b.Charges.Subtotal,
		Discount:           b.Charges.Discount,
		Fee:                b.Charges.Fee,
		Total:              b.Charges.Total,
		CouponCode:         b.CouponCode,
		PaymentStatus:      b.PaymentStatus,
		RefundedAmount:     b.RefundedAmount,
		CancellationReason: b.CancellationReason,
		FailureReason:      b.FailureReason,
		Version:            b.Version,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildDomain() *booking.Booking {
	return booking.Reconstruct(b.BuildSnapshot())
}

func (b *BookingBuilder) BuildReservation() booking.Reservation {
	slot, err := booking.NewTimeSlot(b.Start, b.End)
	if err != nil {
		panic(err)
	}
	return booking.Reservation{BookingID: b.ID, SpotID: b.SpotID, Slot: slot, CreatedAt: b.CreatedAt}
}

// BuildView resolves status at the builder's creation time.
func (b *BookingBuilder) BuildView() *queries.BookingView {
	return queries.NewBookingView(b.BuildDomain(), b.CreatedAt)
}

func (b *BookingBuilder) BuildCreateRequestDTO() request.CreateBookingRequest {
	return request.CreateBookingRequest{
		SpotID:     b.SpotID,
		StartTime:  b.Start,
		EndTime:    b.End,
		Vehicle:    b.Vehicle,
		CouponCode: b.CouponCode,
		RateMode:   string(b.RateMode),
	}
}
