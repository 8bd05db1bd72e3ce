package queries

import (
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/money"
	"parq-core/internal/domain/pricing"
	"parq-core/internal/domain/spot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                 uuid.UUID     `json:"id"`
	SpotID             uuid.UUID     `json:"spot_id"`
	RequesterID        uuid.UUID     `json:"requester_id"`
	Vehicle            string        `json:"vehicle"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	RateMode           string        `json:"rate_mode"`
	Status             string        `json:"status"`
	Subtotal           money.Amount  `json:"subtotal"`
	Discount           money.Amount  `json:"discount"`
	Fee                money.Amount  `json:"fee"`
	Total              money.Amount  `json:"total"`
	CouponCode         *string       `json:"coupon_code,omitempty"`
	PaymentStatus      string        `json:"payment_status"`
	RefundedAmount     money.Amount  `json:"refunded_amount"`
	CancellationReason *string       `json:"cancellation_reason,omitempty"`
	FailureReason      *string       `json:"failure_reason,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// NewBookingView reports the status as resolved at now.
func NewBookingView(b *booking.Booking, now time.Time) *BookingView {
	c := b.Charges()
	return &BookingView{
		ID:                 b.ID(),
		SpotID:             b.SpotID(),
		RequesterID:        b.RequesterID(),
		Vehicle:            b.Vehicle().String(),
		StartTime:          b.Slot().Start(),
		EndTime:            b.Slot().End(),
		RateMode:           string(b.RateMode()),
		Status:             string(booking.ResolveStatus(b, now)),
		Subtotal:           c.Subtotal,
		Discount:           c.Discount,
		Fee:                c.Fee,
		Total:              c.Total,
		CouponCode:         b.CouponCode(),
		PaymentStatus:      string(b.PaymentStatus()),
		RefundedAmount:     b.RefundedAmount(),
		CancellationReason: b.CancellationReason(),
		FailureReason:      b.FailureReason(),
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}
}

type SpotView struct {
	ID            uuid.UUID     `json:"id"`
	HostID        uuid.UUID     `json:"host_id"`
	Name          string        `json:"name"`
	TotalCapacity int           `json:"total_capacity"`
	PricePerHour  money.Amount  `json:"price_per_hour"`
	PricePerDay   *money.Amount `json:"price_per_day,omitempty"`
	Active        bool          `json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func NewSpotView(s *spot.Spot) *SpotView {
	return &SpotView{
		ID:            s.ID(),
		HostID:        s.HostID(),
		Name:          s.Name(),
		TotalCapacity: s.TotalCapacity(),
		PricePerHour:  s.PricePerHour(),
		PricePerDay:   s.PricePerDay(),
		Active:        s.IsActive(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
	}
}

type AvailabilityView struct {
	SpotID    uuid.UUID `json:"spot_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
}

type QuoteView struct {
	RateMode      string       `json:"rate_mode"`
	BillableUnits int64        `json:"billable_units"`
	UnitPrice     money.Amount `json:"unit_price"`
	Subtotal      money.Amount `json:"subtotal"`
	Discount      money.Amount `json:"discount"`
	Fee           money.Amount `json:"fee"`
	Total         money.Amount `json:"total"`
	CouponCode    *string      `json:"coupon_code,omitempty"`
}

func NewQuoteView(q *pricing.Quote) *QuoteView {
	return &QuoteView{
		RateMode:      string(q.RateMode),
		BillableUnits: q.BillableUnits,
		UnitPrice:     q.UnitPrice,
		Subtotal:      q.Subtotal,
		Discount:      q.Discount,
		Fee:           q.Fee,
		Total:         q.Total,
		CouponCode:    q.CouponCode,
	}
}

type WalletView struct {
	AccountID uuid.UUID    `json:"account_id"`
	Balance   money.Amount `json:"balance"`
	Version   int64        `json:"version"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

func NewWalletView(w *ledger.Wallet) *WalletView {
	v := &WalletView{AccountID: w.AccountID(), Balance: w.Balance(), Version: w.Version()}
	if !w.UpdatedAt().IsZero() {
		at := w.UpdatedAt()
		v.UpdatedAt = &at
	}
	return v
}

type TransactionView struct {
	ID               uuid.UUID    `json:"id"`
	AccountID        uuid.UUID    `json:"account_id"`
	Type             string       `json:"type"`
	Amount           money.Amount `json:"amount"`
	BookingID        *uuid.UUID   `json:"booking_id,omitempty"`
	Description      string       `json:"description"`
	ResultingBalance money.Amount `json:"resulting_balance"`
	CreatedAt        time.Time    `json:"created_at"`
}

func NewTransactionView(t ledger.Transaction) *TransactionView {
	return &TransactionView{
		ID:               t.ID,
		AccountID:        t.AccountID,
		Type:             t.Type.String(),
		Amount:           t.Amount,
		BookingID:        t.BookingID,
		Description:      t.Description,
		ResultingBalance: t.ResultingBalance,
		CreatedAt:        t.CreatedAt,
	}
}

type ReconcileView struct {
	AccountID  uuid.UUID    `json:"account_id"`
	Stored     money.Amount `json:"stored_balance"`
	Replayed   money.Amount `json:"replayed_balance"`
	Delta      money.Amount `json:"delta"`
	Entries    int          `json:"entries"`
	Consistent bool         `json:"consistent"`
}

func NewReconcileView(d ledger.Drift) *ReconcileView {
	return &ReconcileView{
		AccountID:  d.AccountID,
		Stored:     d.Stored,
		Replayed:   d.Replayed,
		Delta:      d.Delta(),
		Entries:    d.Entries,
		Consistent: d.Consistent(),
	}
}

type CouponView struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	Value          decimal.Decimal `json:"value"`
	MaxDiscount    *money.Amount   `json:"max_discount,omitempty"`
	MinOrderAmount money.Amount    `json:"min_order_amount"`
	UsageLimit     int             `json:"usage_limit"`
	UsedCount      int             `json:"used_count"`
	ValidFrom      time.Time       `json:"valid_from"`
	ValidTo        time.Time       `json:"valid_to"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func NewCouponView(c *coupon.Coupon) *CouponView {
	d := c.Discount()
	return &CouponView{
		ID:             c.ID(),
		Code:           c.Code().String(),
		DiscountType:   string(d.Type()),
		Value:          d.Value(),
		MaxDiscount:    d.MaxDiscount(),
		MinOrderAmount: c.MinOrderAmount(),
		UsageLimit:     c.UsageLimit(),
		UsedCount:      c.UsedCount(),
		ValidFrom:      c.ValidFrom(),
		ValidTo:        c.ValidTo(),
		Status:         string(c.Status()),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}
}
