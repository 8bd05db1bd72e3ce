package booking

import (
	"regexp"
	"strings"
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidVehicle  = errs.Validation("vehicle must be 1-32 letters, digits, spaces or dashes")
	ErrInvalidRateMode = errs.Validation("rate mode must be hourly or daily")
	ErrPaymentState    = errs.New("payment status does not allow this operation")
)

var vehicleRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{0,31}$`)

type Vehicle string

func NewVehicle(s string) (Vehicle, error) {
	s = strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if !vehicleRegex.MatchString(s) {
		return "", ErrInvalidVehicle
	}
	return Vehicle(s), nil
}

func (v Vehicle) String() string {
	return string(v)
}

type RateMode string

const (
	RateHourly RateMode = "hourly"
	RateDaily  RateMode = "daily"
)

func NewRateMode(s string) (RateMode, error) {
	switch RateMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", RateHourly:
		return RateHourly, nil
	case RateDaily:
		return RateDaily, nil
	default:
		return "", ErrInvalidRateMode
	}
}

// Charges is the priced breakdown a hold was placed for.
type Charges struct {
	Subtotal money.Amount
	Discount money.Amount
	Fee      money.Amount
	Total    money.Amount
}

type Booking struct {
	id                 uuid.UUID
	spotID             uuid.UUID
	requesterID        uuid.UUID
	vehicle            Vehicle
	slot               TimeSlot
	rateMode           RateMode
	status             Status
	charges            Charges
	couponCode         *string
	paymentStatus      PaymentStatus
	refundedAmount     money.Amount
	cancellationReason *string
	failureReason      *string
	version            int64
	createdAt          time.Time
	updatedAt          time.Time
}

func NewBooking(
	spotID, requesterID uuid.UUID,
	slot TimeSlot,
	vehicle Vehicle,
	rateMode RateMode,
	couponCode *string,
	now time.Time,
) *Booking {
	return &Booking{
		id:            uuid.New(),
		spotID:        spotID,
		requesterID:   requesterID,
		vehicle:       vehicle,
		slot:          slot,
		rateMode:      rateMode,
		status:        StatusPending,
		couponCode:    couponCode,
		paymentStatus: PaymentUnpaid,
		createdAt:     now,
		updatedAt:     now,
	}
}

// Snapshot is the flat persisted form of a booking.
type Snapshot struct {
	ID                 uuid.UUID
	SpotID             uuid.UUID
	RequesterID        uuid.UUID
	Vehicle            string
	StartTime          time.Time
	EndTime            time.Time
	RateMode           RateMode
	Status             Status
	Subtotal           money.Amount
	Discount           money.Amount
	Fee                money.Amount
	Total              money.Amount
	CouponCode         *string
	PaymentStatus      PaymentStatus
	RefundedAmount     money.Amount
	CancellationReason *string
	FailureReason      *string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func Reconstruct(s Snapshot) *Booking {
	return &Booking{
		id:          s.ID,
		spotID:      s.SpotID,
		requesterID: s.RequesterID,
		vehicle:     Vehicle(s.Vehicle),
		slot:        TimeSlot{start: s.StartTime.UTC(), end: s.EndTime.UTC()},
		rateMode:    s.RateMode,
		status:      s.Status,
		charges: Charges{
			Subtotal: s.Subtotal,
			Discount: s.Discount,
			Fee:      s.Fee,
			Total:    s.Total,
		},
		couponCode:         s.CouponCode,
		paymentStatus:      s.PaymentStatus,
		refundedAmount:     s.RefundedAmount,
		cancellationReason: s.CancellationReason,
		failureReason:      s.FailureReason,
		version:            s.Version,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
	}
}

func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		ID:                 b.id,
		SpotID:             b.spotID,
		RequesterID:        b.requesterID,
		Vehicle:            b.vehicle.String(),
		StartTime:          b.slot.start,
		EndTime:            b.slot.end,
		RateMode:           b.rateMode,
		Status:             b.status,
		Subtotal:           b.charges.Subtotal,
		Discount:           b.charges.Discount,
		Fee:                b.charges.Fee,
		Total:              b.charges.Total,
		CouponCode:         b.couponCode,
		PaymentStatus:      b.paymentStatus,
		RefundedAmount:     b.refundedAmount,
		CancellationReason: b.cancellationReason,
		FailureReason:      b.failureReason,
		Version:            b.version,
		CreatedAt:          b.createdAt,
		UpdatedAt:          b.updatedAt,
	}
}

// RecordHold stores the priced charges once funds are held for them.
func (b *Booking) RecordHold(c Charges, now time.Time) error {
	if b.status != StatusPending {
		return errs.Wrapf(ErrPaymentState, "booking is %s", b.status)
	}
	if b.paymentStatus != PaymentUnpaid {
		return errs.Wrapf(ErrPaymentState, "payment is %s", b.paymentStatus)
	}
	b.charges = c
	b.paymentStatus = PaymentHeld
	b.updatedAt = now
	return nil
}

// ReleaseHold undoes RecordHold while the booking is still being created.
func (b *Booking) ReleaseHold(now time.Time) error {
	if b.paymentStatus != PaymentHeld {
		return errs.Wrapf(ErrPaymentState, "payment is %s", b.paymentStatus)
	}
	b.paymentStatus = PaymentUnpaid
	b.updatedAt = now
	return nil
}

func (b *Booking) MarkCaptured(now time.Time) error {
	if b.paymentStatus != PaymentHeld {
		return errs.Wrapf(ErrPaymentState, "payment is %s", b.paymentStatus)
	}
	b.paymentStatus = PaymentCaptured
	b.updatedAt = now
	return nil
}

// SettleCancellation records how much of the hold went back to the requester.
// Anything not refunded counts as captured.
func (b *Booking) SettleCancellation(refund money.Amount, now time.Time) error {
	if b.paymentStatus != PaymentHeld {
		return errs.Wrapf(ErrPaymentState, "payment is %s", b.paymentStatus)
	}
	if refund.IsNegative() || refund > b.charges.Total {
		return errs.Validation("refund must be between zero and the held total")
	}
	b.refundedAmount = refund
	if refund.IsPositive() {
		b.paymentStatus = PaymentRefunded
	} else {
		b.paymentStatus = PaymentCaptured
	}
	b.updatedAt = now
	return nil
}

// AdvanceVersion is called by stores after a successful conditional write.
func (b *Booking) AdvanceVersion() {
	b.version++
}

func (b *Booking) ID() uuid.UUID                 { return b.id }
func (b *Booking) SpotID() uuid.UUID             { return b.spotID }
func (b *Booking) RequesterID() uuid.UUID        { return b.requesterID }
func (b *Booking) Vehicle() Vehicle              { return b.vehicle }
func (b *Booking) Slot() TimeSlot                { return b.slot }
func (b *Booking) RateMode() RateMode            { return b.rateMode }
func (b *Booking) StoredStatus() Status          { return b.status }
func (b *Booking) Charges() Charges              { return b.charges }
func (b *Booking) Total() money.Amount           { return b.charges.Total }
func (b *Booking) CouponCode() *string           { return b.couponCode }
func (b *Booking) PaymentStatus() PaymentStatus  { return b.paymentStatus }
func (b *Booking) RefundedAmount() money.Amount  { return b.refundedAmount }
func (b *Booking) CancellationReason() *string   { return b.cancellationReason }
func (b *Booking) FailureReason() *string        { return b.failureReason }
func (b *Booking) Version() int64                { return b.version }
func (b *Booking) CreatedAt() time.Time          { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time          { return b.updatedAt }
