package shared

import (
	"context"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/spot"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: one atomic unit for write operations. Never nest calls.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: consistent multi-table snapshot for reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Spots() SpotRepository
	Bookings() BookingRepository
	Reservations() ReservationRepository
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Coupons() CouponRepository
	Idempotency() IdempotencyRepository
	Outbox() OutboxRepository
}

type SpotRepository interface {
	Create(ctx context.Context, s *spot.Spot) error
	FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error)
	// FindByIDForUpdate serializes every reserve and release on the spot.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*spot.Spot, error)
	Update(ctx context.Context, s *spot.Spot) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// Update writes only if the stored version still equals b.Version(),
	// otherwise ErrConcurrencyConflict. On success b's version advances.
	Update(ctx context.Context, b *booking.Booking) error
	ListByRequester(ctx context.Context, requesterID uuid.UUID, page Keyset) ([]*booking.Booking, error)
	ListByHost(ctx context.Context, hostID uuid.UUID, page Keyset) ([]*booking.Booking, error)
	ListConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]*booking.Booking, error)
	ListPendingCreatedBefore(ctx context.Context, t time.Time, limit int) ([]*booking.Booking, error)
}

type ReservationRepository interface {
	Insert(ctx context.Context, r booking.Reservation) error
	// Delete reports whether a row existed.
	Delete(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ListOverlapping(ctx context.Context, spotID uuid.UUID, slot booking.TimeSlot) ([]booking.Reservation, error)
	ListEndingAfter(ctx context.Context, spotID uuid.UUID, t time.Time) ([]booking.Reservation, error)
}

type WalletRepository interface {
	// Get returns an empty wallet at version 0 for unknown accounts.
	Get(ctx context.Context, accountID uuid.UUID) (*ledger.Wallet, error)
	// CompareAndSwap stores w if the stored version equals w.Version(),
	// otherwise ErrConcurrencyConflict. On success w's version advances.
	CompareAndSwap(ctx context.Context, w *ledger.Wallet) error
}

type TransactionRepository interface {
	Append(ctx context.Context, t ledger.Transaction) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, page Keyset) ([]ledger.Transaction, error)
	ListAllByAccount(ctx context.Context, accountID uuid.UUID) ([]ledger.Transaction, error)
	ListByBooking(ctx context.Context, accountID, bookingID uuid.UUID) ([]ledger.Transaction, error)
}

type CouponRepository interface {
	Create(ctx context.Context, c *coupon.Coupon) error
	FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	FindByCodeForUpdate(ctx context.Context, code coupon.Code) (*coupon.Coupon, error)
	// IncrementUsage is guarded by used_count < usage_limit.
	IncrementUsage(ctx context.Context, id uuid.UUID, at time.Time) error
}

type IdempotencyRepository interface {
	Get(ctx context.Context, key string, actorID uuid.UUID) (*IdempotencyRecord, error)
	// TryInsert reports false when a record for (key, actor) already exists.
	TryInsert(ctx context.Context, rec IdempotencyRecord) (bool, error)
	Complete(ctx context.Context, key string, actorID uuid.UUID, at time.Time) error
	Delete(ctx context.Context, key string, actorID uuid.UUID) error
}

type OutboxRepository interface {
	Append(ctx context.Context, e OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
}
