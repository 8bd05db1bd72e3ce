package orchestrator

import (
	"context"
	"time"

	"parq-core/internal/domain/auth"
	"parq-core/internal/domain/booking"
	"parq-core/internal/domain/coupon"
	"parq-core/internal/pkg/clock"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/ledger"
	"parq-core/internal/usecase/queries"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=reader.go -destination=../../../tests/mock/orchestrator/queries_mock.go -package=orchestratormock -build_constraint=unit Queries

// Queries is the read side. Every booking it returns carries the status
// resolved at read time.
type Queries interface {
	GetBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*queries.BookingView, error)
	ListMyBookings(ctx context.Context, actor auth.Actor, cursor string, limit int) (queries.Page[*queries.BookingView], error)
	GetSpot(ctx context.Context, spotID uuid.UUID) (*queries.SpotView, error)
	GetWalletBalance(ctx context.Context, actor auth.Actor, accountID uuid.UUID) (*queries.WalletView, error)
	ListTransactions(ctx context.Context, actor auth.Actor, accountID uuid.UUID, cursor string, limit int) (queries.Page[*queries.TransactionView], error)
	ReconcileAccount(ctx context.Context, actor auth.Actor, accountID uuid.UUID) (*queries.ReconcileView, error)
	GetCoupon(ctx context.Context, code string) (*queries.CouponView, error)
}

type Reader struct {
	uow    shared.UnitOfWork
	ledger *ledger.Service
	authz  Authorizer
	clock  clock.Clock
}

func NewReader(uow shared.UnitOfWork, ledgerSvc *ledger.Service, authz Authorizer, clk clock.Clock) *Reader {
	return &Reader{uow: uow, ledger: ledgerSvc, authz: authz, clock: clk}
}

func (r *Reader) GetBooking(ctx context.Context, actor auth.Actor, bookingID uuid.UUID) (*queries.BookingView, error) {
	var b *booking.Booking
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if b, err = tx.Bookings().FindByID(ctx, bookingID); err != nil {
			return err
		}
		sp, err := tx.Spots().FindByID(ctx, b.SpotID())
		if err != nil {
			return err
		}
		requester, host := b.RequesterID(), sp.HostID()
		return r.authz.Authorize(ctx, actor, ActionViewBooking, Resource{OwnerID: &requester, HostID: &host})
	})
	if err != nil {
		return nil, err
	}
	return queries.NewBookingView(b, r.clock.Now()), nil
}

// ListMyBookings lists what the actor booked, or for hosts what was booked
// on their spots.
func (r *Reader) ListMyBookings(ctx context.Context, actor auth.Actor, cursor string, limit int) (queries.Page[*queries.BookingView], error) {
	page, err := queries.Keyset(cursor, limit)
	if err != nil {
		return queries.Page[*queries.BookingView]{}, err
	}

	var found []*booking.Booking
	err = r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if actor.Role == auth.RoleHost {
			found, err = tx.Bookings().ListByHost(ctx, actor.ID, page)
		} else {
			found, err = tx.Bookings().ListByRequester(ctx, actor.ID, page)
		}
		return err
	})
	if err != nil {
		return queries.Page[*queries.BookingView]{}, err
	}

	now := r.clock.Now()
	views := make([]*queries.BookingView, 0, len(found))
	for _, b := range found {
		views = append(views, queries.NewBookingView(b, now))
	}
	return queries.NewPage(views, page.Limit, func(v *queries.BookingView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	}), nil
}

func (r *Reader) GetSpot(ctx context.Context, spotID uuid.UUID) (*queries.SpotView, error) {
	var view *queries.SpotView
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		sp, err := tx.Spots().FindByID(ctx, spotID)
		if err != nil {
			return err
		}
		view = queries.NewSpotView(sp)
		return nil
	})
	return view, err
}

func (r *Reader) GetWalletBalance(ctx context.Context, actor auth.Actor, accountID uuid.UUID) (*queries.WalletView, error) {
	if err := r.authz.Authorize(ctx, actor, ActionViewWallet, Resource{OwnerID: &accountID}); err != nil {
		return nil, err
	}
	w, err := r.ledger.Balance(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return queries.NewWalletView(w), nil
}

func (r *Reader) ListTransactions(ctx context.Context, actor auth.Actor, accountID uuid.UUID, cursor string, limit int) (queries.Page[*queries.TransactionView], error) {
	if err := r.authz.Authorize(ctx, actor, ActionViewWallet, Resource{OwnerID: &accountID}); err != nil {
		return queries.Page[*queries.TransactionView]{}, err
	}
	page, err := queries.Keyset(cursor, limit)
	if err != nil {
		return queries.Page[*queries.TransactionView]{}, err
	}
	txns, err := r.ledger.Transactions(ctx, accountID, page)
	if err != nil {
		return queries.Page[*queries.TransactionView]{}, err
	}

	views := make([]*queries.TransactionView, 0, len(txns))
	for _, t := range txns {
		views = append(views, queries.NewTransactionView(t))
	}
	return queries.NewPage(views, page.Limit, func(v *queries.TransactionView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	}), nil
}

func (r *Reader) ReconcileAccount(ctx context.Context, actor auth.Actor, accountID uuid.UUID) (*queries.ReconcileView, error) {
	if err := r.authz.Authorize(ctx, actor, ActionReconcile, Resource{OwnerID: &accountID}); err != nil {
		return nil, err
	}
	drift, err := r.ledger.Reconcile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return queries.NewReconcileView(drift), nil
}

func (r *Reader) GetCoupon(ctx context.Context, raw string) (*queries.CouponView, error) {
	code, err := coupon.NewCouponCode(raw)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrCouponNotFound, "coupon %q", raw)
	}
	var view *queries.CouponView
	err = r.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		cp, err := tx.Coupons().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		view = queries.NewCouponView(cp)
		return nil
	})
	return view, err
}
