package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listCouponsSQL = `
	SELECT id, code, kind, value, is_active, expires_at, created_at, updated_at
	FROM coupons
	ORDER BY created_at DESC`

func (q *Queries) ListCoupons(ctx context.Context) ([]Coupon, error) {
	rows, err := q.db.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.IsActive,
			&c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, rows.Err()
}

const getActiveCouponByCodeSQL = `
	SELECT id, code, kind, value, is_active, expires_at, created_at, updated_at
	FROM coupons
	WHERE UPPER(code) = UPPER($1)
	  AND is_active = true
	  AND (expires_at IS NULL OR expires_at > NOW())`

// GetActiveCouponByCode resolves a coupon code case-insensitively, skipping
// inactive and expired coupons.
func (q *Queries) GetActiveCouponByCode(ctx context.Context, code string) (Coupon, error) {
	var c Coupon
	err := q.db.QueryRow(ctx, getActiveCouponByCodeSQL, code).
		Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.IsActive, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createCouponSQL = `
	INSERT INTO coupons (code, kind, value, expires_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id, code, kind, value, is_active, expires_at, created_at, updated_at`

type CreateCouponParams struct {
	Code      string
	Kind      string
	Value     pgtype.Numeric
	ExpiresAt pgtype.Timestamptz
}

func (q *Queries) CreateCoupon(ctx context.Context, arg CreateCouponParams) (Coupon, error) {
	var c Coupon
	err := q.db.QueryRow(ctx, createCouponSQL, arg.Code, arg.Kind, arg.Value, arg.ExpiresAt).
		Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.IsActive, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const deactivateCouponSQL = `
	UPDATE coupons
	SET is_active = false, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id`

func (q *Queries) DeactivateCoupon(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, deactivateCouponSQL, id).Scan(&out)
	return out, err
}
