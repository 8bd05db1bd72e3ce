package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/money"
	"parq-core/internal/usecase/pricing"
	"parq-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteInput struct {
	SpotID     uuid.UUID
	Start      time.Time
	End        time.Time
	CouponCode *string
	RateMode   string
}

func (in QuoteInput) request() (pricing.QuoteRequest, error) {
	slot, err := booking.NewTimeSlot(in.Start, in.End)
	if err != nil {
		return pricing.QuoteRequest{}, err
	}
	mode, err := booking.NewRateMode(in.RateMode)
	if err != nil {
		return pricing.QuoteRequest{}, err
	}
	return pricing.QuoteRequest{
		SpotID:     in.SpotID,
		Slot:       slot,
		CouponCode: normalizeCode(in.CouponCode),
		RateMode:   mode,
	}, nil
}

type CreateBookingInput struct {
	SpotID         uuid.UUID
	Start          time.Time
	End            time.Time
	Vehicle        string
	CouponCode     *string
	RateMode       string
	IdempotencyKey string
}

// Hash fingerprints the request so a reused idempotency key can be told
// apart from a retry.
func (in CreateBookingInput) Hash() string {
	var sb strings.Builder
	sb.WriteString(in.SpotID.String())
	sb.WriteByte('|')
	sb.WriteString(in.Start.UTC().Format(time.RFC3339Nano))
	sb.WriteByte('|')
	sb.WriteString(in.End.UTC().Format(time.RFC3339Nano))
	sb.WriteByte('|')
	sb.WriteString(strings.ToUpper(strings.TrimSpace(in.Vehicle)))
	sb.WriteByte('|')
	if c := normalizeCode(in.CouponCode); c != nil {
		sb.WriteString(*c)
	}
	sb.WriteByte('|')
	if mode, err := booking.NewRateMode(in.RateMode); err == nil {
		sb.WriteString(string(mode))
	} else {
		sb.WriteString(strings.ToLower(strings.TrimSpace(in.RateMode)))
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

type CreateBookingResult struct {
	Booking *queries.BookingView
	// Replayed is true when an earlier request with the same idempotency key
	// produced this booking.
	Replayed bool
}

type CreateSpotInput struct {
	// HostID is honored for admins only; hosts always own what they create.
	HostID       *uuid.UUID
	Name         string
	Capacity     int
	PricePerHour money.Amount
	PricePerDay  *money.Amount
}

type CreateCouponInput struct {
	Code           string
	DiscountType   string
	Value          decimal.Decimal
	MaxDiscount    *money.Amount
	MinOrderAmount money.Amount
	UsageLimit     int
	ValidFrom      time.Time
	ValidTo        time.Time
}

func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	c := strings.ToUpper(strings.TrimSpace(*code))
	if c == "" {
		return nil
	}
	return &c
}
