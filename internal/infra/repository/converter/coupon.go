package converter

import (
	"time"

	"parq-core/internal/domain/coupon"
	"parq-core/internal/domain/money"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const CouponColumns = `id, code, discount_type, discount_value, max_discount, min_order_amount,
	usage_limit, used_count, valid_from, valid_to, status, created_at, updated_at`

type CouponRow struct {
	ID             uuid.UUID
	Code           string
	DiscountType   string
	DiscountValue  pgtype.Numeric
	MaxDiscount    pgtype.Int8
	MinOrderAmount int64
	UsageLimit     int32
	UsedCount      int32
	ValidFrom      time.Time
	ValidTo        time.Time
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *CouponRow) Targets() []any {
	return []any{
		&r.ID, &r.Code, &r.DiscountType, &r.DiscountValue, &r.MaxDiscount, &r.MinOrderAmount,
		&r.UsageLimit, &r.UsedCount, &r.ValidFrom, &r.ValidTo, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	}
}

// CouponToDomain fails only on rows the domain would never have written.
func CouponToDomain(r CouponRow) (*coupon.Coupon, error) {
	value, err := pgconv.DecimalFromNumeric(r.DiscountValue)
	if err != nil {
		return nil, errs.Wrapf(err, "coupon %s discount value", r.Code)
	}
	discount, err := coupon.NewDiscount(coupon.DiscountType(r.DiscountType), value, pgconv.AmountPtrFromPgtype(r.MaxDiscount))
	if err != nil {
		return nil, errs.Wrapf(err, "coupon %s discount", r.Code)
	}
	return coupon.ReconstructCoupon(
		r.ID, coupon.Code(r.Code), discount, money.FromPaise(r.MinOrderAmount),
		int(r.UsageLimit), int(r.UsedCount),
		r.ValidFrom.UTC(), r.ValidTo.UTC(), coupon.Status(r.Status),
		r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	), nil
}

func CouponArgs(c *coupon.Coupon) []any {
	d := c.Discount()
	return []any{
		c.ID(), c.Code().String(), string(d.Type()), pgconv.DecimalToNumeric(d.Value()),
		pgconv.AmountPtrToPgtype(d.MaxDiscount()), c.MinOrderAmount().Paise(),
		int32(c.UsageLimit()), int32(c.UsedCount()), c.ValidFrom(), c.ValidTo(), string(c.Status()),
		c.CreatedAt(), c.UpdatedAt(),
	}
}
