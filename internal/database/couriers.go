package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listCouriersSQL = `
	SELECT id, name, phone, status, is_active, created_at, updated_at
	FROM couriers
	WHERE is_active = true
	  AND ($1::text IS NULL OR status = $1)
	ORDER BY name`

func (q *Queries) ListCouriers(ctx context.Context, status pgtype.Text) ([]Courier, error) {
	rows, err := q.db.Query(ctx, listCouriersSQL, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var couriers []Courier
	for rows.Next() {
		var c Courier
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, rows.Err()
}

const getCourierSQL = `
	SELECT id, name, phone, status, is_active, created_at, updated_at
	FROM couriers
	WHERE id = $1 AND is_active = true`

func (q *Queries) GetCourier(ctx context.Context, id uuid.UUID) (Courier, error) {
	var c Courier
	err := q.db.QueryRow(ctx, getCourierSQL, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createCourierSQL = `
	INSERT INTO couriers (name, phone, status)
	VALUES ($1, $2, $3)
	RETURNING id, name, phone, status, is_active, created_at, updated_at`

type CreateCourierParams struct {
	Name   string
	Phone  pgtype.Text
	Status string
}

func (q *Queries) CreateCourier(ctx context.Context, arg CreateCourierParams) (Courier, error) {
	var c Courier
	err := q.db.QueryRow(ctx, createCourierSQL, arg.Name, arg.Phone, arg.Status).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const updateCourierStatusSQL = `
	UPDATE couriers
	SET status = $2, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id, name, phone, status, is_active, created_at, updated_at`

type UpdateCourierStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateCourierStatus(ctx context.Context, arg UpdateCourierStatusParams) (Courier, error) {
	var c Courier
	err := q.db.QueryRow(ctx, updateCourierStatusSQL, arg.ID, arg.Status).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Status, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const softDeleteCourierSQL = `
	UPDATE couriers
	SET is_active = false, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id`

func (q *Queries) SoftDeleteCourier(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteCourierSQL, id).Scan(&out)
	return out, err
}
