package converter

import (
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const BookingColumns = `id, spot_id, requester_id, vehicle, start_time, end_time, rate_mode, status,
	subtotal, discount, fee, total, coupon_code, payment_status, refunded_amount,
	cancellation_reason, failure_reason, version, created_at, updated_at`

type BookingRow struct {
	ID                 uuid.UUID
	SpotID             uuid.UUID
	RequesterID        uuid.UUID
	Vehicle            string
	StartTime          time.Time
	EndTime            time.Time
	RateMode           string
	Status             string
	Subtotal           int64
	Discount           int64
	Fee                int64
	Total              int64
	CouponCode         pgtype.Text
	PaymentStatus      string
	RefundedAmount     int64
	CancellationReason pgtype.Text
	FailureReason      pgtype.Text
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (r *BookingRow) Targets() []any {
	return []any{
		&r.ID, &r.SpotID, &r.RequesterID, &r.Vehicle, &r.StartTime, &r.EndTime, &r.RateMode, &r.Status,
		&r.Subtotal, &r.Discount, &r.Fee, &r.Total, &r.CouponCode, &r.PaymentStatus, &r.RefundedAmount,
		&r.CancellationReason, &r.FailureReason, &r.Version, &r.CreatedAt, &r.UpdatedAt,
	}
}

func BookingToDomain(r BookingRow) *booking.Booking {
	return booking.Reconstruct(booking.Snapshot{
		ID:                 r.ID,
		SpotID:             r.SpotID,
		RequesterID:        r.RequesterID,
		Vehicle:            r.Vehicle,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		RateMode:           booking.RateMode(r.RateMode),
		Status:             booking.Status(r.Status),
		Subtotal:           money.FromPaise(r.Subtotal),
		Discount:           money.FromPaise(r.Discount),
		Fee:                money.FromPaise(r.Fee),
		Total:              money.FromPaise(r.Total),
		CouponCode:         pgconv.StringPtrFromPgtype(r.CouponCode),
		PaymentStatus:      booking.PaymentStatus(r.PaymentStatus),
		RefundedAmount:     money.FromPaise(r.RefundedAmount),
		CancellationReason: pgconv.StringPtrFromPgtype(r.CancellationReason),
		FailureReason:      pgconv.StringPtrFromPgtype(r.FailureReason),
		Version:            r.Version,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
	})
}

// BookingArgs matches BookingColumns.
func BookingArgs(b *booking.Booking) []any {
	s := b.Snapshot()
	return []any{
		s.ID, s.SpotID, s.RequesterID, s.Vehicle, s.StartTime, s.EndTime, string(s.RateMode), string(s.Status),
		s.Subtotal.Paise(), s.Discount.Paise(), s.Fee.Paise(), s.Total.Paise(),
		pgconv.StringPtrToPgtype(s.CouponCode), string(s.PaymentStatus), s.RefundedAmount.Paise(),
		pgconv.StringPtrToPgtype(s.CancellationReason), pgconv.StringPtrToPgtype(s.FailureReason),
		s.Version, s.CreatedAt, s.UpdatedAt,
	}
}

const ReservationColumns = `booking_id, spot_id, start_time, end_time, created_at`

type ReservationRow struct {
	BookingID uuid.UUID
	SpotID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	CreatedAt time.Time
}

func (r *ReservationRow) Targets() []any {
	return []any{&r.BookingID, &r.SpotID, &r.StartTime, &r.EndTime, &r.CreatedAt}
}

func ReservationToDomain(r ReservationRow) (booking.Reservation, error) {
	slot, err := booking.NewTimeSlot(r.StartTime.UTC(), r.EndTime.UTC())
	if err != nil {
		return booking.Reservation{}, err
	}
	return booking.Reservation{
		BookingID: r.BookingID,
		SpotID:    r.SpotID,
		Slot:      slot,
		CreatedAt: r.CreatedAt.UTC(),
	}, nil
}
