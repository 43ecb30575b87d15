package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getNextOrderNumberSQL = `
	SELECT COALESCE(MAX(CAST(SUBSTRING(order_number FROM 'PDV-([0-9]+)') AS INTEGER)), 0) + 1
	FROM orders`

// GetNextOrderNumber returns the next sequential order number. Concurrent
// transactions can race on the MAX; the caller retries on the unique
// constraint violation.
func (q *Queries) GetNextOrderNumber(ctx context.Context) (int32, error) {
	var n int32
	err := q.db.QueryRow(ctx, getNextOrderNumberSQL).Scan(&n)
	return n, err
}

const createOrderSQL = `
	INSERT INTO orders (
		order_number, order_type, status, customer_id, customer_name,
		customer_phone, courier_id, subtotal, discount_total, service_total,
		delivery_fee, total_amount, observations, created_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id, order_number, order_type, status, customer_id, customer_name,
		customer_phone, courier_id, subtotal, discount_total, service_total,
		delivery_fee, total_amount, observations, created_by, created_at, updated_at`

type CreateOrderParams struct {
	OrderNumber   string
	OrderType     string
	Status        string
	CustomerID    pgtype.UUID
	CustomerName  pgtype.Text
	CustomerPhone pgtype.Text
	CourierID     pgtype.UUID
	Subtotal      pgtype.Numeric
	DiscountTotal pgtype.Numeric
	ServiceTotal  pgtype.Numeric
	DeliveryFee   pgtype.Numeric
	TotalAmount   pgtype.Numeric
	Observations  pgtype.Text
	CreatedBy     uuid.UUID
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrderSQL,
		arg.OrderNumber, arg.OrderType, arg.Status, arg.CustomerID,
		arg.CustomerName, arg.CustomerPhone, arg.CourierID, arg.Subtotal,
		arg.DiscountTotal, arg.ServiceTotal, arg.DeliveryFee, arg.TotalAmount,
		arg.Observations, arg.CreatedBy,
	)
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OrderType, &o.Status, &o.CustomerID,
		&o.CustomerName, &o.CustomerPhone, &o.CourierID, &o.Subtotal,
		&o.DiscountTotal, &o.ServiceTotal, &o.DeliveryFee, &o.TotalAmount,
		&o.Observations, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const createOrderLineSQL = `
	INSERT INTO order_lines (order_id, product_id, name, unit_price, quantity, line_total)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, order_id, product_id, name, unit_price, quantity, line_total`

type CreateOrderLineParams struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	UnitPrice pgtype.Numeric
	Quantity  int32
	LineTotal pgtype.Numeric
}

func (q *Queries) CreateOrderLine(ctx context.Context, arg CreateOrderLineParams) (OrderLine, error) {
	row := q.db.QueryRow(ctx, createOrderLineSQL,
		arg.OrderID, arg.ProductID, arg.Name, arg.UnitPrice, arg.Quantity, arg.LineTotal,
	)
	var l OrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.UnitPrice, &l.Quantity, &l.LineTotal)
	return l, err
}

const createOrderLineCustomizationSQL = `
	INSERT INTO order_line_customizations (order_line_id, name, unit_price, quantity)
	VALUES ($1, $2, $3, $4)
	RETURNING id, order_line_id, name, unit_price, quantity`

type CreateOrderLineCustomizationParams struct {
	OrderLineID uuid.UUID
	Name        string
	UnitPrice   pgtype.Numeric
	Quantity    int32
}

func (q *Queries) CreateOrderLineCustomization(ctx context.Context, arg CreateOrderLineCustomizationParams) (OrderLineCustomization, error) {
	row := q.db.QueryRow(ctx, createOrderLineCustomizationSQL,
		arg.OrderLineID, arg.Name, arg.UnitPrice, arg.Quantity,
	)
	var c OrderLineCustomization
	err := row.Scan(&c.ID, &c.OrderLineID, &c.Name, &c.UnitPrice, &c.Quantity)
	return c, err
}

const createOrderPaymentSQL = `
	INSERT INTO order_payments (order_id, method, amount)
	VALUES ($1, $2, $3)
	RETURNING id, order_id, method, amount`

type CreateOrderPaymentParams struct {
	OrderID uuid.UUID
	Method  string
	Amount  pgtype.Numeric
}

func (q *Queries) CreateOrderPayment(ctx context.Context, arg CreateOrderPaymentParams) (OrderPayment, error) {
	row := q.db.QueryRow(ctx, createOrderPaymentSQL, arg.OrderID, arg.Method, arg.Amount)
	var p OrderPayment
	err := row.Scan(&p.ID, &p.OrderID, &p.Method, &p.Amount)
	return p, err
}

const getOrderSQL = `
	SELECT id, order_number, order_type, status, customer_id, customer_name,
		customer_phone, courier_id, subtotal, discount_total, service_total,
		delivery_fee, total_amount, observations, created_by, created_at, updated_at
	FROM orders
	WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrderSQL, id)
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.OrderType, &o.Status, &o.CustomerID,
		&o.CustomerName, &o.CustomerPhone, &o.CourierID, &o.Subtotal,
		&o.DiscountTotal, &o.ServiceTotal, &o.DeliveryFee, &o.TotalAmount,
		&o.Observations, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

const listOrdersSQL = `
	SELECT id, order_number, order_type, status, customer_id, customer_name,
		customer_phone, courier_id, subtotal, discount_total, service_total,
		delivery_fee, total_amount, observations, created_by, created_at, updated_at
	FROM orders
	WHERE ($1::text IS NULL OR status = $1)
	  AND ($2::text IS NULL OR order_type = $2)
	ORDER BY created_at DESC
	LIMIT $3 OFFSET $4`

type ListOrdersParams struct {
	Status    pgtype.Text
	OrderType pgtype.Text
	Limit     int32
	Offset    int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersSQL, arg.Status, arg.OrderType, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.OrderType, &o.Status, &o.CustomerID,
			&o.CustomerName, &o.CustomerPhone, &o.CourierID, &o.Subtotal,
			&o.DiscountTotal, &o.ServiceTotal, &o.DeliveryFee, &o.TotalAmount,
			&o.Observations, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const listOrderLinesByOrderSQL = `
	SELECT id, order_id, product_id, name, unit_price, quantity, line_total
	FROM order_lines
	WHERE order_id = $1
	ORDER BY id`

func (q *Queries) ListOrderLinesByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderLine, error) {
	rows, err := q.db.Query(ctx, listOrderLinesByOrderSQL, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.UnitPrice, &l.Quantity, &l.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

const listOrderLineCustomizationsSQL = `
	SELECT id, order_line_id, name, unit_price, quantity
	FROM order_line_customizations
	WHERE order_line_id = $1
	ORDER BY id`

func (q *Queries) ListOrderLineCustomizations(ctx context.Context, orderLineID uuid.UUID) ([]OrderLineCustomization, error) {
	rows, err := q.db.Query(ctx, listOrderLineCustomizationsSQL, orderLineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customizations []OrderLineCustomization
	for rows.Next() {
		var c OrderLineCustomization
		if err := rows.Scan(&c.ID, &c.OrderLineID, &c.Name, &c.UnitPrice, &c.Quantity); err != nil {
			return nil, err
		}
		customizations = append(customizations, c)
	}
	return customizations, rows.Err()
}

const listOrderPaymentsByOrderSQL = `
	SELECT id, order_id, method, amount
	FROM order_payments
	WHERE order_id = $1
	ORDER BY id`

func (q *Queries) ListOrderPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderPayment, error) {
	rows, err := q.db.Query(ctx, listOrderPaymentsByOrderSQL, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []OrderPayment
	for rows.Next() {
		var p OrderPayment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Method, &p.Amount); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
