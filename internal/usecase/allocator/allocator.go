package allocator

import (
	"context"
	"log/slog"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// AvailabilityCache holds Query results. Implementations must tolerate being
// unavailable and report a miss instead.
//
// Get returns the spot generation it read even on a miss. Set writes under
// that generation, so a value computed before an Invalidate is never served
// after it. A negative generation means the cache could not be read and Set
// does nothing.
type AvailabilityCache interface {
	Get(ctx context.Context, spotID uuid.UUID, slot booking.TimeSlot) (available int, gen int64, ok bool)
	Set(ctx context.Context, spotID uuid.UUID, gen int64, slot booking.TimeSlot, available int)
	Invalidate(ctx context.Context, spotID uuid.UUID)
}

type Availability struct {
	SpotID    uuid.UUID
	Slot      booking.TimeSlot
	Capacity  int
	Available int
}

type Allocator struct {
	uow    shared.UnitOfWork
	cache  AvailabilityCache
	logger *slog.Logger
}

func New(uow shared.UnitOfWork, cache AvailabilityCache, logger *slog.Logger) *Allocator {
	return &Allocator{uow: uow, cache: cache, logger: logger}
}

// Reserve takes one unit of the spot's capacity for b over its slot inside
// tx. The spot row lock serializes concurrent reserves on the same spot.
func (a *Allocator) Reserve(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
	if b.StoredStatus() != booking.StatusPending {
		return errs.Wrapf(errs.ErrInvalidTransition, "booking %s is %s", b.ID(), b.Status(now))
	}

	sp, err := tx.Spots().FindByIDForUpdate(ctx, b.SpotID())
	if err != nil {
		return err
	}
	if !sp.IsActive() {
		return errs.Wrapf(errs.ErrSpotInactive, "spot %s", sp.ID())
	}

	existing, err := tx.Reservations().ListOverlapping(ctx, sp.ID(), b.Slot())
	if err != nil {
		return err
	}
	if !booking.Fits(sp.TotalCapacity(), b.Slot(), existing) {
		a.logger.Info("reservation rejected",
			slog.String("spot_id", sp.ID().String()),
			slog.String("booking_id", b.ID().String()),
			slog.Int("capacity", sp.TotalCapacity()),
			slog.Int("peak", booking.PeakOverlap(b.Slot(), existing)))
		return errs.Wrapf(errs.ErrCapacityExceeded, "spot %s is full over %s", sp.ID(), b.Slot())
	}

	return tx.Reservations().Insert(ctx, booking.Reservation{
		BookingID: b.ID(),
		SpotID:    sp.ID(),
		Slot:      b.Slot(),
		CreatedAt: now,
	})
}

// Release frees the reservation held by bookingID. Releasing twice is not an
// error; only an unknown booking is.
func (a *Allocator) Release(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) error {
	b, err := tx.Bookings().FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if _, err := tx.Spots().FindByIDForUpdate(ctx, b.SpotID()); err != nil {
		return err
	}
	released, err := tx.Reservations().Delete(ctx, bookingID)
	if err != nil {
		return err
	}
	if !released {
		a.logger.Debug("reservation already released", slog.String("booking_id", bookingID.String()))
	}
	return nil
}

// Invalidate drops cached availability for a spot. Callers run it after the
// unit that changed reservations has committed.
func (a *Allocator) Invalidate(ctx context.Context, spotID uuid.UUID) {
	a.cache.Invalidate(ctx, spotID)
}

// Query reports free capacity over slot. The cache generation is read before
// the reservations so a concurrent Invalidate always wins over the value
// computed here.
func (a *Allocator) Query(ctx context.Context, spotID uuid.UUID, slot booking.TimeSlot) (*Availability, error) {
	cached, gen, hit := a.cache.Get(ctx, spotID, slot)

	var (
		result   Availability
		computed bool
	)
	err := a.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		sp, err := tx.Spots().FindByID(ctx, spotID)
		if err != nil {
			return err
		}
		result = Availability{SpotID: spotID, Slot: slot, Capacity: sp.TotalCapacity()}
		if !sp.IsActive() {
			return nil
		}
		if hit {
			result.Available = cached
			return nil
		}
		existing, err := tx.Reservations().ListOverlapping(ctx, spotID, slot)
		if err != nil {
			return err
		}
		result.Available = booking.Available(sp.TotalCapacity(), slot, existing)
		computed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if computed {
		a.cache.Set(ctx, spotID, gen, slot, result.Available)
	}
	return &result, nil
}

// PeakFrom is the largest overlap among reservations that end after from.
// Capacity changes must stay at or above it.
func PeakFrom(ctx context.Context, tx shared.Tx, spotID uuid.UUID, from time.Time) (int, error) {
	live, err := tx.Reservations().ListEndingAfter(ctx, spotID, from)
	if err != nil {
		return 0, err
	}
	if len(live) == 0 {
		return 0, nil
	}
	end := from
	for _, r := range live {
		if r.Slot.End().After(end) {
			end = r.Slot.End()
		}
	}
	window, err := booking.NewTimeSlot(from, end)
	if err != nil {
		return 0, err
	}
	return booking.PeakOverlap(window, live), nil
}

// NoopCache never hits.
type NoopCache struct{}

func (NoopCache) Get(context.Context, uuid.UUID, booking.TimeSlot) (int, int64, bool) {
	return 0, -1, false
}
func (NoopCache) Set(context.Context, uuid.UUID, int64, booking.TimeSlot, int) {}
func (NoopCache) Invalidate(context.Context, uuid.UUID)                        {}
