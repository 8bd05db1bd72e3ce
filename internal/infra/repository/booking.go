package repository

import (
	"context"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/infra"
	"parq-core/internal/infra/db"
	"parq-core/internal/infra/repository/converter"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/pgconv"
	"parq-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO bookings (`+converter.BookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		converter.BookingArgs(b)...)
	if err != nil {
		wrapped := infra.WrapRepoErr("failed to create booking", err)
		if infra.IsKind(wrapped, infra.KindForeignKeyViolated) {
			return errs.Wrapf(errs.ErrSpotNotFound, "spot %s", b.SpotID())
		}
		return wrapped
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.find(ctx, `SELECT `+converter.BookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.find(ctx, `SELECT `+converter.BookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *BookingRepository) find(ctx context.Context, query string, id uuid.UUID) (*booking.Booking, error) {
	var row converter.BookingRow
	if err := r.db.QueryRow(ctx, query, id).Scan(row.Targets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Wrapf(errs.ErrBookingNotFound, "booking %s", id)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return converter.BookingToDomain(row), nil
}

// Update is a compare-and-swap on version.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	s := b.Snapshot()
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET
			status = $3, subtotal = $4, discount = $5, fee = $6, total = $7, coupon_code = $8,
			payment_status = $9, refunded_amount = $10, cancellation_reason = $11, failure_reason = $12,
			updated_at = $13, version = version + 1
		WHERE id = $1 AND version = $2`,
		s.ID, s.Version, string(s.Status), s.Subtotal.Paise(), s.Discount.Paise(), s.Fee.Paise(), s.Total.Paise(),
		pgconv.StringPtrToPgtype(s.CouponCode), string(s.PaymentStatus), s.RefundedAmount.Paise(),
		pgconv.StringPtrToPgtype(s.CancellationReason), pgconv.StringPtrToPgtype(s.FailureReason), s.UpdatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, s.ID).Scan(&exists); err != nil {
			return infra.WrapRepoErr("failed to check booking", err)
		}
		if !exists {
			return errs.Wrapf(errs.ErrBookingNotFound, "booking %s", s.ID)
		}
		return errs.Wrapf(errs.ErrConcurrencyConflict, "booking %s moved past version %d", s.ID, s.Version)
	}
	b.AdvanceVersion()
	return nil
}

func (r *BookingRepository) ListByRequester(ctx context.Context, requesterID uuid.UUID, page shared.Keyset) ([]*booking.Booking, error) {
	return r.listPage(ctx,
		`SELECT `+converter.BookingColumns+` FROM bookings WHERE requester_id = $1`,
		"", requesterID, page)
}

func (r *BookingRepository) ListByHost(ctx context.Context, hostID uuid.UUID, page shared.Keyset) ([]*booking.Booking, error) {
	return r.listPage(ctx,
		`SELECT `+prefixed("b", converter.BookingColumns)+` FROM bookings b
		JOIN spots s ON s.id = b.spot_id WHERE s.host_id = $1`,
		"b", hostID, page)
}

func (r *BookingRepository) listPage(ctx context.Context, base, alias string, owner uuid.UUID, page shared.Keyset) ([]*booking.Booking, error) {
	query, args := keysetQuery(base, alias, owner, page)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	return collectBookings(rows)
}

func (r *BookingRepository) ListConfirmedEndedBefore(ctx context.Context, t time.Time, limit int) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+converter.BookingColumns+` FROM bookings
		WHERE status = $1 AND end_time <= $2 ORDER BY created_at LIMIT $3`,
		string(booking.StatusConfirmed), t, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ended bookings", err)
	}
	return collectBookings(rows)
}

func (r *BookingRepository) ListPendingCreatedBefore(ctx context.Context, t time.Time, limit int) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+converter.BookingColumns+` FROM bookings
		WHERE status = $1 AND created_at < $2 ORDER BY created_at LIMIT $3`,
		string(booking.StatusPending), t, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale bookings", err)
	}
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	defer rows.Close()
	var out []*booking.Booking
	for rows.Next() {
		var row converter.BookingRow
		if err := rows.Scan(row.Targets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		out = append(out, converter.BookingToDomain(row))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}
