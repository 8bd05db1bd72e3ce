package repository

import (
	"context"

	"parq-core/internal/domain/spot"
	"parq-core/internal/infra"
	"parq-core/internal/infra/db"
	"parq-core/internal/infra/repository/converter"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type SpotRepository struct {
	db db.DBTX
}

func NewSpotRepository(db db.DBTX) *SpotRepository {
	return &SpotRepository{db: db}
}

func (r *SpotRepository) Create(ctx context.Context, s *spot.Spot) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO spots (`+converter.SpotColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		converter.SpotArgs(s)...)
	if err != nil {
		return infra.WrapRepoErr("failed to create spot", err)
	}
	return nil
}

func (r *SpotRepository) FindByID(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	return r.find(ctx, `SELECT `+converter.SpotColumns+` FROM spots WHERE id = $1`, id)
}

// FindByIDForUpdate holds the row lock until the unit of work ends.
func (r *SpotRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*spot.Spot, error) {
	return r.find(ctx, `SELECT `+converter.SpotColumns+` FROM spots WHERE id = $1 FOR UPDATE`, id)
}

func (r *SpotRepository) find(ctx context.Context, query string, id uuid.UUID) (*spot.Spot, error) {
	var row converter.SpotRow
	if err := r.db.QueryRow(ctx, query, id).Scan(row.Targets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Wrapf(errs.ErrSpotNotFound, "spot %s", id)
		}
		return nil, infra.WrapRepoErr("failed to find spot", err)
	}
	return converter.SpotToDomain(row), nil
}

func (r *SpotRepository) Update(ctx context.Context, s *spot.Spot) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE spots SET name = $2, total_capacity = $3, price_per_hour = $4, price_per_day = $5,
			active = $6, updated_at = $7
		WHERE id = $1`,
		s.ID(), s.Name(), int32(s.TotalCapacity()), s.PricePerHour().Paise(),
		pgconv.AmountPtrToPgtype(s.PricePerDay()), s.IsActive(), s.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update spot", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.Wrapf(errs.ErrSpotNotFound, "spot %s", s.ID())
	}
	return nil
}
