package database

import "context"

const getActiveCouponByCodeSQL = `
	SELECT id, code, discount_percent, min_order_cents, max_discount_cents, is_active
	FROM coupons WHERE code = $1 AND is_active`

// GetActiveCouponByCode looks up an active coupon by its exact code.
// Codes are stored uppercase; callers normalize before lookup.
func (q *Queries) GetActiveCouponByCode(ctx context.Context, code string) (Coupon, error) {
	row := q.db.QueryRow(ctx, getActiveCouponByCodeSQL, code)
	var c Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.MinOrderCents, &c.MaxDiscountCents, &c.IsActive)
	return c, err
}

const createCouponSQL = `
	INSERT INTO coupons (code, discount_percent, min_order_cents, max_discount_cents, is_active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, code, discount_percent, min_order_cents, max_discount_cents, is_active`

type CreateCouponParams struct {
	Code             string
	DiscountPercent  int32
	MinOrderCents    int64
	MaxDiscountCents int64
	IsActive         bool
}

func (q *Queries) CreateCoupon(ctx context.Context, arg CreateCouponParams) (Coupon, error) {
	row := q.db.QueryRow(ctx, createCouponSQL,
		arg.Code, arg.DiscountPercent, arg.MinOrderCents, arg.MaxDiscountCents, arg.IsActive)
	var c Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.MinOrderCents, &c.MaxDiscountCents, &c.IsActive)
	return c, err
}

const listCouponsSQL = `
	SELECT id, code, discount_percent, min_order_cents, max_discount_cents, is_active
	FROM coupons ORDER BY code ASC`

func (q *Queries) ListCoupons(ctx context.Context) ([]Coupon, error) {
	rows, err := q.db.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountPercent, &c.MinOrderCents, &c.MaxDiscountCents, &c.IsActive); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}
