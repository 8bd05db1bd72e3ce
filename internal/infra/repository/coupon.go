package repository

import (
	"context"
	"time"

	"parq-core/internal/domain/coupon"
	"parq-core/internal/infra"
	"parq-core/internal/infra/db"
	"parq-core/internal/infra/repository/converter"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(db db.DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) Create(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO coupons (`+converter.CouponColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		converter.CouponArgs(c)...)
	if err != nil {
		wrapped := infra.WrapRepoErr("failed to create coupon", err)
		if infra.IsKind(wrapped, infra.KindDuplicateKey) {
			return errs.Wrapf(errs.ErrDuplicate, "coupon %s", c.Code())
		}
		return wrapped
	}
	return nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	return r.find(ctx, `SELECT `+converter.CouponColumns+` FROM coupons WHERE code = $1`, code)
}

func (r *CouponRepository) FindByCodeForUpdate(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	return r.find(ctx, `SELECT `+converter.CouponColumns+` FROM coupons WHERE code = $1 FOR UPDATE`, code)
}

func (r *CouponRepository) find(ctx context.Context, query string, code coupon.Code) (*coupon.Coupon, error) {
	var row converter.CouponRow
	if err := r.db.QueryRow(ctx, query, code.String()).Scan(row.Targets()...); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Wrapf(errs.ErrCouponNotFound, "coupon %s", code)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	c, err := converter.CouponToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert coupon row", err)
	}
	return c, nil
}

// IncrementUsage never lets used_count pass usage_limit, whatever the caller read.
func (r *CouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE coupons SET used_count = used_count + 1, updated_at = $2
		WHERE id = $1 AND used_count < usage_limit`,
		id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM coupons WHERE id = $1)`, id).Scan(&exists); err != nil {
			return infra.WrapRepoErr("failed to check coupon", err)
		}
		if !exists {
			return errs.Wrapf(errs.ErrCouponNotFound, "coupon %s", id)
		}
		return errs.Wrapf(errs.ErrCouponExhausted, "coupon %s", id)
	}
	return nil
}
