package memstore

import (
	"context"
	"sort"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/ledger"
	"parq-core/internal/domain/spot"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

func cloneSpot(s *spot.Spot) *spot.Spot {
	return spot.ReconstructSpot(
		s.ID(), s.HostID(), s.Name(), s.TotalCapacity(),
		s.PricePerHour(), s.PricePerDay(), s.IsActive(),
		s.CreatedAt(), s.UpdatedAt(),
	)
}

func cloneCoupon(c *coupon.Coupon) *coupon.Coupon {
	return coupon.ReconstructCoupon(
		c.ID(), c.Code(), c.Discount(), c.MinOrderAmount(),
		c.UsageLimit(), c.UsedCount(),
		c.ValidFrom(), c.ValidTo(), c.Status(),
		c.CreatedAt(), c.UpdatedAt(),
	)
}

func cloneWallet(w *ledger.Wallet) *ledger.Wallet {
	return ledger.ReconstructWallet(w.AccountID(), w.Balance(), w.Version(), w.UpdatedAt())
}

type spotRepo struct{ t *memTx }

func (r spotRepo) Create(_ context.Context, s *spot.Spot) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, ok := r.t.s.spots[s.ID()]; ok {
		return errs.Wrapf(errs.ErrDuplicate, "spot %s", s.ID())
	}
	r.t.s.spots[s.ID()] = cloneSpot(s)
	r.t.record(func() { delete(r.t.s.spots, s.ID()) })
	return nil
}

func (r spotRepo) FindByID(_ context.Context, id uuid.UUID) (*spot.Spot, error) {
	s, ok := r.t.s.spots[id]
	if !ok {
		return nil, errs.Wrapf(errs.ErrSpotNotFound, "spot %s", id)
	}
	return cloneSpot(s), nil
}

func (r spotRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	return r.FindByID(ctx, id)
}

func (r spotRepo) Update(_ context.Context, s *spot.Spot) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	prev, ok := r.t.s.spots[s.ID()]
	if !ok {
		return errs.Wrapf(errs.ErrSpotNotFound, "spot %s", s.ID())
	}
	r.t.s.spots[s.ID()] = cloneSpot(s)
	r.t.record(func() { r.t.s.spots[s.ID()] = prev })
	return nil
}

type bookingRepo struct{ t *memTx }

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, ok := r.t.s.bookings[b.ID()]; ok {
		return errs.Wrapf(errs.ErrDuplicate, "booking %s", b.ID())
	}
	if _, ok := r.t.s.spots[b.SpotID()]; !ok {
		return errs.Wrapf(errs.ErrSpotNotFound, "spot %s", b.SpotID())
	}
	r.t.s.bookings[b.ID()] = b.Snapshot()
	r.t.record(func() { delete(r.t.s.bookings, b.ID()) })
	return nil
}

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	snap, ok := r.t.s.bookings[id]
	if !ok {
		return nil, errs.Wrapf(errs.ErrBookingNotFound, "booking %s", id)
	}
	return booking.Reconstruct(snap), nil
}

func (r bookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	prev, ok := r.t.s.bookings[b.ID()]
	if !ok {
		return errs.Wrapf(errs.ErrBookingNotFound, "booking %s", b.ID())
	}
	if prev.Version != b.Version() {
		return errs.Wrapf(errs.ErrConcurrencyConflict, "booking %s at version %d, have %d", b.ID(), prev.Version, b.Version())
	}
	b.AdvanceVersion()
	r.t.s.bookings[b.ID()] = b.Snapshot()
	r.t.record(func() { r.t.s.bookings[b.ID()] = prev })
	return nil
}

func (r bookingRepo) list(keep func(booking.Snapshot) bool, page shared.Keyset) []*booking.Booking {
	var snaps []booking.Snapshot
	for _, s := range r.t.s.bookings {
		if keep(s) && page.Before(s.CreatedAt, s.ID) {
			snaps = append(snaps, s)
		}
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].ID.String() > snaps[j].ID.String()
		}
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	if page.Limit > 0 && len(snaps) > page.Limit {
		snaps = snaps[:page.Limit]
	}
	out := make([]*booking.Booking, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, booking.Reconstruct(s))
	}
	return out
}

func (r bookingRepo) ListByRequester(_ context.Context, requesterID uuid.UUID, page shared.Keyset) ([]*booking.Booking, error) {
	return r.list(func(s booking.Snapshot) bool { return s.RequesterID == requesterID }, page), nil
}

func (r bookingRepo) ListByHost(_ context.Context, hostID uuid.UUID, page shared.Keyset) ([]*booking.Booking, error) {
	return r.list(func(s booking.Snapshot) bool {
		sp, ok := r.t.s.spots[s.SpotID]
		return ok && sp.HostID() == hostID
	}, page), nil
}

func (r bookingRepo) ListConfirmedEndedBefore(_ context.Context, t time.Time, limit int) ([]*booking.Booking, error) {
	return r.oldestFirst(func(s booking.Snapshot) bool {
		return s.Status == booking.StatusConfirmed && !s.EndTime.After(t)
	}, limit), nil
}

func (r bookingRepo) ListPendingCreatedBefore(_ context.Context, t time.Time, limit int) ([]*booking.Booking, error) {
	return r.oldestFirst(func(s booking.Snapshot) bool {
		return s.Status == booking.StatusPending && s.CreatedAt.Before(t)
	}, limit), nil
}

func (r bookingRepo) oldestFirst(keep func(booking.Snapshot) bool, limit int) []*booking.Booking {
	var snaps []booking.Snapshot
	for _, s := range r.t.s.bookings {
		if keep(s) {
			snaps = append(snaps, s)
		}
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].CreatedAt.Before(snaps[j].CreatedAt) })
	if limit > 0 && len(snaps) > limit {
		snaps = snaps[:limit]
	}
	out := make([]*booking.Booking, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, booking.Reconstruct(s))
	}
	return out
}

type reservationRepo struct{ t *memTx }

func (r reservationRepo) Insert(_ context.Context, res booking.Reservation) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, ok := r.t.s.reservations[res.BookingID]; ok {
		return errs.Wrapf(errs.ErrDuplicate, "reservation for booking %s", res.BookingID)
	}
	r.t.s.reservations[res.BookingID] = res
	r.t.record(func() { delete(r.t.s.reservations, res.BookingID) })
	return nil
}

func (r reservationRepo) Delete(_ context.Context, bookingID uuid.UUID) (bool, error) {
	if err := r.t.writable(); err != nil {
		return false, err
	}
	prev, ok := r.t.s.reservations[bookingID]
	if !ok {
		return false, nil
	}
	delete(r.t.s.reservations, bookingID)
	r.t.record(func() { r.t.s.reservations[bookingID] = prev })
	return true, nil
}

func (r reservationRepo) ListOverlapping(_ context.Context, spotID uuid.UUID, slot booking.TimeSlot) ([]booking.Reservation, error) {
	var out []booking.Reservation
	for _, res := range r.t.s.reservations {
		if res.SpotID == spotID && res.Slot.Overlaps(slot) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r reservationRepo) ListEndingAfter(_ context.Context, spotID uuid.UUID, t time.Time) ([]booking.Reservation, error) {
	var out []booking.Reservation
	for _, res := range r.t.s.reservations {
		if res.SpotID == spotID && res.Slot.End().After(t) {
			out = append(out, res)
		}
	}
	return out, nil
}

type walletRepo struct{ t *memTx }

func (r walletRepo) Get(_ context.Context, accountID uuid.UUID) (*ledger.Wallet, error) {
	w, ok := r.t.s.wallets[accountID]
	if !ok {
		return ledger.NewEmptyWallet(accountID), nil
	}
	return cloneWallet(w), nil
}

func (r walletRepo) CompareAndSwap(_ context.Context, w *ledger.Wallet) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	prev, ok := r.t.s.wallets[w.AccountID()]
	var stored int64
	if ok {
		stored = prev.Version()
	}
	if stored != w.Version() {
		return errs.Wrapf(errs.ErrConcurrencyConflict, "wallet %s at version %d, have %d", w.AccountID(), stored, w.Version())
	}
	w.AdvanceVersion()
	r.t.s.wallets[w.AccountID()] = cloneWallet(w)
	r.t.record(func() {
		if ok {
			r.t.s.wallets[w.AccountID()] = prev
		} else {
			delete(r.t.s.wallets, w.AccountID())
		}
	})
	return nil
}

type transactionRepo struct{ t *memTx }

func (r transactionRepo) Append(_ context.Context, txn ledger.Transaction) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	n := len(r.t.s.txns)
	r.t.s.txns = append(r.t.s.txns, txn)
	r.t.record(func() { r.t.s.txns = r.t.s.txns[:n] })
	return nil
}

func (r transactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID, page shared.Keyset) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for i := len(r.t.s.txns) - 1; i >= 0; i-- {
		txn := r.t.s.txns[i]
		if txn.AccountID == accountID && page.Before(txn.CreatedAt, txn.ID) {
			out = append(out, txn)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (r transactionRepo) ListAllByAccount(_ context.Context, accountID uuid.UUID) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for _, txn := range r.t.s.txns {
		if txn.AccountID == accountID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r transactionRepo) ListByBooking(_ context.Context, accountID, bookingID uuid.UUID) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for _, txn := range r.t.s.txns {
		if txn.AccountID == accountID && txn.BookingID != nil && *txn.BookingID == bookingID {
			out = append(out, txn)
		}
	}
	return out, nil
}

type couponRepo struct{ t *memTx }

func (r couponRepo) Create(_ context.Context, c *coupon.Coupon) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	if _, ok := r.t.s.coupons[c.Code()]; ok {
		return errs.Wrapf(errs.ErrDuplicate, "coupon %s", c.Code())
	}
	r.t.s.coupons[c.Code()] = cloneCoupon(c)
	r.t.record(func() { delete(r.t.s.coupons, c.Code()) })
	return nil
}

func (r couponRepo) FindByCode(_ context.Context, code coupon.Code) (*coupon.Coupon, error) {
	c, ok := r.t.s.coupons[code]
	if !ok {
		return nil, errs.Wrapf(errs.ErrCouponNotFound, "coupon %s", code)
	}
	return cloneCoupon(c), nil
}

func (r couponRepo) FindByCodeForUpdate(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	return r.FindByCode(ctx, code)
}

func (r couponRepo) IncrementUsage(_ context.Context, id uuid.UUID, at time.Time) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	for code, c := range r.t.s.coupons {
		if c.ID() != id {
			continue
		}
		next := cloneCoupon(c)
		if err := next.Redeem(at); err != nil {
			return err
		}
		r.t.s.coupons[code] = next
		r.t.record(func() { r.t.s.coupons[code] = c })
		return nil
	}
	return errs.Wrapf(errs.ErrCouponNotFound, "coupon %s", id)
}

type idempotencyRepo struct{ t *memTx }

func (r idempotencyRepo) Get(_ context.Context, key string, actorID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.t.s.idempotency[idemKey{key, actorID}]
	if !ok {
		return nil, errs.Wrapf(errs.ErrNotFound, "idempotency key %s", key)
	}
	return &rec, nil
}

func (r idempotencyRepo) TryInsert(_ context.Context, rec shared.IdempotencyRecord) (bool, error) {
	if err := r.t.writable(); err != nil {
		return false, err
	}
	k := idemKey{rec.Key, rec.ActorID}
	if _, ok := r.t.s.idempotency[k]; ok {
		return false, nil
	}
	r.t.s.idempotency[k] = rec
	r.t.record(func() { delete(r.t.s.idempotency, k) })
	return true, nil
}

func (r idempotencyRepo) Complete(_ context.Context, key string, actorID uuid.UUID, _ time.Time) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	k := idemKey{key, actorID}
	prev, ok := r.t.s.idempotency[k]
	if !ok {
		return errs.Wrapf(errs.ErrNotFound, "idempotency key %s", key)
	}
	next := prev
	next.Status = shared.IdempotencyCompleted
	r.t.s.idempotency[k] = next
	r.t.record(func() { r.t.s.idempotency[k] = prev })
	return nil
}

func (r idempotencyRepo) Delete(_ context.Context, key string, actorID uuid.UUID) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	k := idemKey{key, actorID}
	prev, ok := r.t.s.idempotency[k]
	if !ok {
		return nil
	}
	delete(r.t.s.idempotency, k)
	r.t.record(func() { r.t.s.idempotency[k] = prev })
	return nil
}

type outboxRepo struct{ t *memTx }

func (r outboxRepo) Append(_ context.Context, e shared.OutboxEvent) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	n := len(r.t.s.outbox)
	r.t.s.outbox = append(r.t.s.outbox, e)
	r.t.record(func() { r.t.s.outbox = r.t.s.outbox[:n] })
	return nil
}

func (r outboxRepo) ListPending(_ context.Context, limit int) ([]shared.OutboxEvent, error) {
	var out []shared.OutboxEvent
	for _, e := range r.t.s.outbox {
		if e.PublishedAt == nil {
			out = append(out, e)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r outboxRepo) MarkPublished(_ context.Context, id uuid.UUID, at time.Time) error {
	if err := r.t.writable(); err != nil {
		return err
	}
	for i, e := range r.t.s.outbox {
		if e.ID != id {
			continue
		}
		prev := e.PublishedAt
		published := at
		r.t.s.outbox[i].PublishedAt = &published
		r.t.record(func() { r.t.s.outbox[i].PublishedAt = prev })
		return nil
	}
	return errs.Wrapf(errs.ErrNotFound, "outbox event %s", id)
}
