package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listCustomersSQL = `
	SELECT id, name, phone, email, notes, is_active, created_at, updated_at
	FROM customers
	WHERE is_active = true
	  AND ($1::text IS NULL OR name ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%')
	ORDER BY name
	LIMIT $2 OFFSET $3`

type ListCustomersParams struct {
	Search pgtype.Text
	Limit  int32
	Offset int32
}

func (q *Queries) ListCustomers(ctx context.Context, arg ListCustomersParams) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomersSQL, arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Notes,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

const getCustomerSQL = `
	SELECT id, name, phone, email, notes, is_active, created_at, updated_at
	FROM customers
	WHERE id = $1 AND is_active = true`

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	var c Customer
	err := q.db.QueryRow(ctx, getCustomerSQL, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const createCustomerSQL = `
	INSERT INTO customers (name, phone, email, notes)
	VALUES ($1, $2, $3, $4)
	RETURNING id, name, phone, email, notes, is_active, created_at, updated_at`

type CreateCustomerParams struct {
	Name  string
	Phone string
	Email pgtype.Text
	Notes pgtype.Text
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	var c Customer
	err := q.db.QueryRow(ctx, createCustomerSQL, arg.Name, arg.Phone, arg.Email, arg.Notes).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const updateCustomerSQL = `
	UPDATE customers
	SET name = $2, phone = $3, email = $4, notes = $5, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id, name, phone, email, notes, is_active, created_at, updated_at`

type UpdateCustomerParams struct {
	ID    uuid.UUID
	Name  string
	Phone string
	Email pgtype.Text
	Notes pgtype.Text
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	var c Customer
	err := q.db.QueryRow(ctx, updateCustomerSQL, arg.ID, arg.Name, arg.Phone, arg.Email, arg.Notes).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Notes, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const softDeleteCustomerSQL = `
	UPDATE customers
	SET is_active = false, updated_at = NOW()
	WHERE id = $1 AND is_active = true
	RETURNING id`

func (q *Queries) SoftDeleteCustomer(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteCustomerSQL, id).Scan(&out)
	return out, err
}

// ── Addresses ──

const listCustomerAddressesSQL = `
	SELECT id, customer_id, street, number, district, city, complement, created_at
	FROM customer_addresses
	WHERE customer_id = $1
	ORDER BY created_at`

func (q *Queries) ListCustomerAddresses(ctx context.Context, customerID uuid.UUID) ([]CustomerAddress, error) {
	rows, err := q.db.Query(ctx, listCustomerAddressesSQL, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []CustomerAddress
	for rows.Next() {
		var a CustomerAddress
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Street, &a.Number, &a.District,
			&a.City, &a.Complement, &a.CreatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

const createCustomerAddressSQL = `
	INSERT INTO customer_addresses (customer_id, street, number, district, city, complement)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, customer_id, street, number, district, city, complement, created_at`

type CreateCustomerAddressParams struct {
	CustomerID uuid.UUID
	Street     string
	Number     string
	District   pgtype.Text
	City       string
	Complement pgtype.Text
}

func (q *Queries) CreateCustomerAddress(ctx context.Context, arg CreateCustomerAddressParams) (CustomerAddress, error) {
	var a CustomerAddress
	err := q.db.QueryRow(ctx, createCustomerAddressSQL,
		arg.CustomerID, arg.Street, arg.Number, arg.District, arg.City, arg.Complement).
		Scan(&a.ID, &a.CustomerID, &a.Street, &a.Number, &a.District, &a.City, &a.Complement, &a.CreatedAt)
	return a, err
}

const deleteCustomerAddressSQL = `
	DELETE FROM customer_addresses
	WHERE id = $1 AND customer_id = $2
	RETURNING id`

type DeleteCustomerAddressParams struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
}

func (q *Queries) DeleteCustomerAddress(ctx context.Context, arg DeleteCustomerAddressParams) (uuid.UUID, error) {
	var out uuid.UUID
	err := q.db.QueryRow(ctx, deleteCustomerAddressSQL, arg.ID, arg.CustomerID).Scan(&out)
	return out, err
}
