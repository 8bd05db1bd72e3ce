package converter

import (
	"time"

	"parq-core/internal/domain/money"
	"parq-core/internal/domain/spot"
	"parq-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const SpotColumns = `id, host_id, name, total_capacity, price_per_hour, price_per_day, active, created_at, updated_at`

type SpotRow struct {
	ID            uuid.UUID
	HostID        uuid.UUID
	Name          string
	TotalCapacity int32
	PricePerHour  int64
	PricePerDay   pgtype.Int8
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Targets lists scan destinations in SpotColumns order.
func (r *SpotRow) Targets() []any {
	return []any{&r.ID, &r.HostID, &r.Name, &r.TotalCapacity, &r.PricePerHour, &r.PricePerDay, &r.Active, &r.CreatedAt, &r.UpdatedAt}
}

func SpotToDomain(r SpotRow) *spot.Spot {
	return spot.ReconstructSpot(
		r.ID, r.HostID, r.Name, int(r.TotalCapacity),
		money.FromPaise(r.PricePerHour), pgconv.AmountPtrFromPgtype(r.PricePerDay), r.Active,
		r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	)
}

// SpotArgs matches SpotColumns.
func SpotArgs(s *spot.Spot) []any {
	return []any{
		s.ID(), s.HostID(), s.Name(), int32(s.TotalCapacity()),
		s.PricePerHour().Paise(), pgconv.AmountPtrToPgtype(s.PricePerDay()), s.IsActive(),
		s.CreatedAt(), s.UpdatedAt(),
	}
}
