package repository

import (
	"context"
	"time"

	"parq-core/internal/domain/booking"
	"parq-core/internal/infra"
	"parq-core/internal/infra/db"
	"parq-core/internal/infra/repository/converter"
	"parq-core/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(db db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Insert(ctx context.Context, res booking.Reservation) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reservations (`+converter.ReservationColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		res.BookingID, res.SpotID, res.Slot.Start(), res.Slot.End(), res.CreatedAt)
	if err != nil {
		wrapped := infra.WrapRepoErr("failed to insert reservation", err)
		if infra.IsKind(wrapped, infra.KindDuplicateKey) {
			return errs.Wrapf(errs.ErrDuplicate, "reservation for booking %s", res.BookingID)
		}
		return wrapped
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE booking_id = $1`, bookingID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to delete reservation", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListOverlapping uses half-open intervals, so a reservation ending exactly
// at slot start does not overlap.
func (r *ReservationRepository) ListOverlapping(ctx context.Context, spotID uuid.UUID, slot booking.TimeSlot) ([]booking.Reservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+converter.ReservationColumns+` FROM reservations
		WHERE spot_id = $1 AND start_time < $3 AND end_time > $2`,
		spotID, slot.Start(), slot.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overlapping reservations", err)
	}
	return collectReservations(rows)
}

func (r *ReservationRepository) ListEndingAfter(ctx context.Context, spotID uuid.UUID, t time.Time) ([]booking.Reservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+converter.ReservationColumns+` FROM reservations WHERE spot_id = $1 AND end_time > $2`,
		spotID, t)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list live reservations", err)
	}
	return collectReservations(rows)
}

func collectReservations(rows pgx.Rows) ([]booking.Reservation, error) {
	defer rows.Close()
	var out []booking.Reservation
	for rows.Next() {
		var row converter.ReservationRow
		if err := rows.Scan(row.Targets()...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		res, err := converter.ReservationToDomain(row)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt reservation row", err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return out, nil
}
