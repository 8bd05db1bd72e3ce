package orchestrator

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"parq-core/internal/domain/auth"
	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/pricing"
	"parq-core/internal/usecase/queries"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// CreateBooking runs the booking saga: create Pending, reserve, price,
// hold funds, then confirm together with coupon redemption. A failure after
// the Pending row exists compensates every completed step and leaves the
// booking Failed.
func (o *Orchestrator) CreateBooking(ctx context.Context, actor auth.Actor, in CreateBookingInput) (*CreateBookingResult, error) {
	if err := o.authz.Authorize(ctx, actor, ActionCreateBooking, Resource{}); err != nil {
		return nil, err
	}

	now := o.clock.Now()
	vehicle, err := booking.NewVehicle(in.Vehicle)
	if err != nil {
		return nil, err
	}
	req, err := QuoteInput{
		SpotID:     in.SpotID,
		Start:      in.Start,
		End:        in.End,
		CouponCode: in.CouponCode,
		RateMode:   in.RateMode,
	}.request()
	if err != nil {
		return nil, err
	}
	if req.Slot.Start().Before(now) {
		return nil, errs.Validation("booking cannot start in the past")
	}

	hash := in.Hash()
	if in.IdempotencyKey != "" {
		prior, err := o.replay(ctx, actor, in.IdempotencyKey, hash, now)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			return &CreateBookingResult{Booking: queries.NewBookingView(prior, now), Replayed: true}, nil
		}
	}

	// Pre-flight quote: user-facing pricing errors surface before any row
	// is written.
	if _, err := o.pricing.QuoteStandalone(ctx, req, now); err != nil {
		return nil, err
	}

	b := booking.NewBooking(req.SpotID, actor.ID, req.Slot, vehicle, req.RateMode, req.CouponCode, now)
	if err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		if in.IdempotencyKey != "" {
			ok, err := tx.Idempotency().TryInsert(ctx, shared.IdempotencyRecord{
				Key:         in.IdempotencyKey,
				ActorID:     actor.ID,
				RequestHash: hash,
				BookingID:   b.ID(),
				Status:      shared.IdempotencyInProgress,
				ExpiresAt:   now.Add(o.settings.IdempotencyTTL),
				CreatedAt:   now,
			})
			if err != nil {
				return err
			}
			if !ok {
				return errs.Wrapf(errs.ErrIdempotencyInProgress, "key %s", in.IdempotencyKey)
			}
		}
		return tx.Bookings().Create(ctx, b)
	}); err != nil {
		return nil, err
	}

	o.logger.Info("booking created",
		slog.String("booking_id", b.ID().String()),
		slog.String("spot_id", b.SpotID().String()),
		slog.String("requester_id", actor.ID.String()),
		slog.String("slot", b.Slot().String()))

	confirmed, err := o.advance(ctx, b.ID(), req, in.IdempotencyKey, actor.ID)
	if err != nil {
		o.fail(ctx, b.ID(), in.IdempotencyKey, actor.ID, err)
		return nil, err
	}
	return &CreateBookingResult{Booking: queries.NewBookingView(confirmed, o.clock.Now())}, nil
}

// replay resolves an idempotency key. It returns the earlier booking when
// the key already produced one and nil when the request should proceed.
func (o *Orchestrator) replay(ctx context.Context, actor auth.Actor, key, hash string, now time.Time) (*booking.Booking, error) {
	var prior *booking.Booking
	err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		prior = nil
		rec, err := tx.Idempotency().Get(ctx, key, actor.ID)
		if errs.Is(err, errs.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if rec.Expired(now) {
			return tx.Idempotency().Delete(ctx, key, actor.ID)
		}
		if rec.RequestHash != hash {
			return errs.Wrapf(errs.ErrIdempotencyKeyReused, "key %s", key)
		}
		b, err := tx.Bookings().FindByID(ctx, rec.BookingID)
		if err != nil {
			return err
		}
		switch b.StoredStatus() {
		case booking.StatusPending:
			return errs.Wrapf(errs.ErrIdempotencyInProgress, "key %s", key)
		case booking.StatusFailed:
			// A failed attempt may be retried with the same key.
			return tx.Idempotency().Delete(ctx, key, actor.ID)
		}
		prior = b
		return nil
	})
	return prior, err
}

// advance runs the saga steps after the Pending row exists and returns the
// confirmed booking.
func (o *Orchestrator) advance(ctx context.Context, bookingID uuid.UUID, req pricing.QuoteRequest, key string, actorID uuid.UUID) (*booking.Booking, error) {
	// Reserve.
	if err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		return o.alloc.Reserve(ctx, tx, b, o.clock.Now())
	}); err != nil {
		return nil, err
	}
	o.alloc.Invalidate(ctx, req.SpotID)

	// Price authoritatively and hold the total.
	if err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := o.clock.Now()
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		q, err := o.pricing.Quote(ctx, tx, req, now)
		if err != nil {
			return err
		}
		if err := o.ledger.Hold(ctx, tx, b.RequesterID(), b.ID(), q.Total); err != nil {
			return err
		}
		if err := b.RecordHold(q.Charges(), now); err != nil {
			return err
		}
		return tx.Bookings().Update(ctx, b)
	}); err != nil {
		return nil, err
	}

	// Redeem the coupon and confirm.
	var confirmed *booking.Booking
	if err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := o.clock.Now()
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := o.applyCoupon(ctx, tx, b, now); err != nil {
			return err
		}
		if err := b.Transition(booking.StatusConfirmed, booking.TransitionContext{Now: now}); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, newEvent(shared.TopicBookingConfirmed, b, now)); err != nil {
			return err
		}
		if key != "" {
			if err := tx.Idempotency().Complete(ctx, key, actorID, now); err != nil {
				return err
			}
		}
		confirmed = b
		return nil
	}); err != nil {
		return nil, err
	}

	o.logger.Info("booking confirmed",
		slog.String("booking_id", bookingID.String()),
		slog.String("total", confirmed.Total().String()))
	return confirmed, nil
}

// applyCoupon consumes one use of the booking's coupon. It runs only inside
// the confirmation unit.
func (o *Orchestrator) applyCoupon(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
	if b.CouponCode() == nil {
		return nil
	}
	code, err := coupon.NewCouponCode(*b.CouponCode())
	if err != nil {
		return errs.Wrapf(errs.ErrCouponInvalid, "coupon %q", *b.CouponCode())
	}
	cp, err := tx.Coupons().FindByCodeForUpdate(ctx, code)
	if err != nil {
		if errs.Is(err, errs.ErrCouponNotFound) {
			return errs.Wrapf(errs.ErrCouponInvalid, "coupon %s", code)
		}
		return err
	}
	return tx.Coupons().IncrementUsage(ctx, cp.ID(), now)
}

// fail compensates a booking that is still Pending: the hold is released,
// the reservation freed and the booking marked Failed with cause's code.
// It runs to completion even when ctx was cancelled, and reports whether
// this call moved the booking to Failed.
func (o *Orchestrator) fail(ctx context.Context, bookingID uuid.UUID, key string, actorID uuid.UUID, cause error) bool {
	ctx = context.WithoutCancel(ctx)
	var spotID uuid.UUID
	err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		spotID = uuid.Nil
		now := o.clock.Now()
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.StoredStatus() != booking.StatusPending {
			return nil
		}

		if b.PaymentStatus() == booking.PaymentHeld {
			if _, err := o.ledger.ReleaseAll(ctx, tx, b.RequesterID(), b.ID()); err != nil {
				return err
			}
			if err := b.ReleaseHold(now); err != nil {
				return err
			}
		}
		if err := o.alloc.Release(ctx, tx, b.ID()); err != nil {
			return err
		}
		if err := b.Transition(booking.StatusFailed, booking.TransitionContext{Now: now, Reason: errs.Code(cause)}); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, newEvent(shared.TopicBookingFailed, b, now)); err != nil {
			return err
		}
		if key != "" {
			if err := tx.Idempotency().Delete(ctx, key, actorID); err != nil {
				return err
			}
		}
		spotID = b.SpotID()
		return nil
	})
	if err != nil {
		o.logger.Error("booking compensation failed",
			slog.String("booking_id", bookingID.String()),
			slog.String("cause", cause.Error()),
			slog.String("error", err.Error()))
		return false
	}
	if spotID == uuid.Nil {
		return false
	}
	o.alloc.Invalidate(ctx, spotID)
	o.logger.Warn("booking failed",
		slog.String("booking_id", bookingID.String()),
		slog.String("reason", errs.Code(cause)),
		slog.String("error", cause.Error()))
	return true
}

// CancelBooking refunds by the configured policy and frees the reservation
// in one unit.
func (o *Orchestrator) CancelBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, reason string) (*queries.BookingView, error) {
	var (
		cancelled *booking.Booking
		refunded  string
	)
	err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := o.clock.Now()
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		sp, err := tx.Spots().FindByID(ctx, b.SpotID())
		if err != nil {
			return err
		}
		requester, host := b.RequesterID(), sp.HostID()
		if err := o.authz.Authorize(ctx, actor, ActionCancelBooking, Resource{OwnerID: &requester, HostID: &host}); err != nil {
			return err
		}
		if err := b.Transition(booking.StatusCancelled, booking.TransitionContext{Now: now, Reason: reason}); err != nil {
			return err
		}

		if b.PaymentStatus() == booking.PaymentHeld {
			held, err := o.ledger.Outstanding(ctx, tx, requester, b.ID())
			if err != nil {
				return err
			}
			refund, retained := o.settings.Cancellation.Split(held, now, b.Slot().Start())
			if err := o.ledger.Refund(ctx, tx, requester, b.ID(), refund); err != nil {
				return err
			}
			if err := o.ledger.Capture(ctx, tx, requester, b.ID(), retained); err != nil {
				return err
			}
			if err := o.payout(ctx, tx, host, b.ID(), retained); err != nil {
				return err
			}
			if err := b.SettleCancellation(refund, now); err != nil {
				return err
			}
			refunded = refund.String()
		}

		if err := o.alloc.Release(ctx, tx, b.ID()); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, newEvent(shared.TopicBookingCancelled, b, now)); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.alloc.Invalidate(ctx, cancelled.SpotID())

	o.logger.Info("booking cancelled",
		slog.String("booking_id", bookingID.String()),
		slog.String("actor_id", actor.ID.String()),
		slog.String("refund", refunded))
	return queries.NewBookingView(cancelled, o.clock.Now()), nil
}

// CompleteBooking captures the hold, pays the host and frees the
// reservation in one unit.
func (o *Orchestrator) CompleteBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	var completed *booking.Booking
	err := o.unit(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := o.clock.Now()
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		sp, err := tx.Spots().FindByID(ctx, b.SpotID())
		if err != nil {
			return err
		}
		requester, host := b.RequesterID(), sp.HostID()
		if err := o.authz.Authorize(ctx, actor, ActionCompleteBooking, Resource{OwnerID: &requester, HostID: &host}); err != nil {
			return err
		}
		if err := b.Transition(booking.StatusCompleted, booking.TransitionContext{Now: now}); err != nil {
			return err
		}

		if b.PaymentStatus() == booking.PaymentHeld {
			held, err := o.ledger.Outstanding(ctx, tx, requester, b.ID())
			if err != nil {
				return err
			}
			if err := o.ledger.Capture(ctx, tx, requester, b.ID(), held); err != nil {
				return err
			}
			if err := o.payout(ctx, tx, host, b.ID(), held); err != nil {
				return err
			}
			if err := b.MarkCaptured(now); err != nil {
				return err
			}
		}

		if err := o.alloc.Release(ctx, tx, b.ID()); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		if err := tx.Outbox().Append(ctx, newEvent(shared.TopicBookingCompleted, b, now)); err != nil {
			return err
		}
		completed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.alloc.Invalidate(ctx, completed.SpotID())

	o.logger.Info("booking completed",
		slog.String("booking_id", bookingID.String()),
		slog.String("actor_id", actor.ID.String()))
	return queries.NewBookingView(completed, o.clock.Now()), nil
}

type eventPayload struct {
	BookingID   uuid.UUID `json:"booking_id"`
	SpotID      uuid.UUID `json:"spot_id"`
	RequesterID uuid.UUID `json:"requester_id"`
	Status      string    `json:"status"`
	Total       string    `json:"total"`
	Refunded    string    `json:"refunded"`
	Reason      *string   `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func newEvent(topic string, b *booking.Booking, now time.Time) shared.OutboxEvent {
	reason := b.CancellationReason()
	if reason == nil {
		reason = b.FailureReason()
	}
	// Marshal cannot fail for this struct.
	payload, _ := json.Marshal(eventPayload{
		BookingID:   b.ID(),
		SpotID:      b.SpotID(),
		RequesterID: b.RequesterID(),
		Status:      b.StoredStatus().String(),
		Total:       b.Total().String(),
		Refunded:    b.RefundedAmount().String(),
		Reason:      reason,
		OccurredAt:  now,
	})
	return shared.OutboxEvent{
		ID:          uuid.New(),
		Topic:       topic,
		AggregateID: b.ID(),
		Payload:     payload,
		CreatedAt:   now,
	}
}
