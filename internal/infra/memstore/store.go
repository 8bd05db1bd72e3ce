// Package memstore is the in-process store behind STORE_DRIVER=memory. Every
// unit of work runs under one store-wide lock and is rolled back from an undo
// log when it returns an error, so units are atomic and serialized.
package memstore

import (
	"context"
	"sync"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/spot"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type idemKey struct {
	key     string
	actorID uuid.UUID
}

var errReadOnly = errs.New("memstore: write in read-only unit")

type Store struct {
	mu sync.RWMutex

	spots        map[uuid.UUID]*spot.Spot
	bookings     map[uuid.UUID]booking.Snapshot
	reservations map[uuid.UUID]booking.Reservation
	wallets      map[uuid.UUID]*ledger.Wallet
	txns         []ledger.Transaction
	coupons      map[coupon.Code]*coupon.Coupon
	idempotency  map[idemKey]shared.IdempotencyRecord
	outbox       []shared.OutboxEvent

	commits     int
	afterCommit func(n int)
}

func New() *Store {
	return &Store{
		spots:        make(map[uuid.UUID]*spot.Spot),
		bookings:     make(map[uuid.UUID]booking.Snapshot),
		reservations: make(map[uuid.UUID]booking.Reservation),
		wallets:      make(map[uuid.UUID]*ledger.Wallet),
		coupons:      make(map[coupon.Code]*coupon.Coupon),
		idempotency:  make(map[idemKey]shared.IdempotencyRecord),
	}
}

func NewUnitOfWork() shared.UnitOfWork {
	return New()
}

// AfterCommit registers fn to run, outside the lock, after each committed
// write unit with the running commit count.
func (s *Store) AfterCommit(fn func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterCommit = fn
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	tx := &memTx{s: s}
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
		var hook func(int)
		n := s.commits
		if committed {
			hook = s.afterCommit
		}
		s.mu.Unlock()
		if hook != nil {
			hook(n)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return err
	}
	committed = true
	s.commits++
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(ctx, &memTx{s: s, readOnly: true})
}

type memTx struct {
	s        *Store
	readOnly bool
	undo     []func()
}

func (t *memTx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

func (t *memTx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) Spots() shared.SpotRepository               { return spotRepo{t} }
func (t *memTx) Bookings() shared.BookingRepository         { return bookingRepo{t} }
func (t *memTx) Reservations() shared.ReservationRepository { return reservationRepo{t} }
func (t *memTx) Wallets() shared.WalletRepository           { return walletRepo{t} }
func (t *memTx) Transactions() shared.TransactionRepository { return transactionRepo{t} }
func (t *memTx) Coupons() shared.CouponRepository           { return couponRepo{t} }
func (t *memTx) Idempotency() shared.IdempotencyRepository  { return idempotencyRepo{t} }
func (t *memTx) Outbox() shared.OutboxRepository            { return outboxRepo{t} }
