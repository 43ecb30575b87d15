package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/draft"
	"github.com/braseiro-pdv/api/internal/enum"
)

const maxOrderNumberRetries = 3

// Errors returned by the order submission adapter. EmptyCart and the
// delivery-customer check duplicate the UI-level readiness gates on purpose:
// the adapter re-validates what it persists regardless of caller discipline.
var (
	ErrEmptyCart                  = errors.New("order has no items")
	ErrMissingCustomerForDelivery = errors.New("customer is required for delivery orders")
	ErrInvalidOrderType           = errors.New("invalid order type")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to persist a draft.
// Satisfied by *database.Queries (pool- or tx-bound).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context) (int32, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderLine(ctx context.Context, arg database.CreateOrderLineParams) (database.OrderLine, error)
	CreateOrderLineCustomization(ctx context.Context, arg database.CreateOrderLineCustomizationParams) (database.OrderLineCustomization, error)
	CreateOrderPayment(ctx context.Context, arg database.CreateOrderPaymentParams) (database.OrderPayment, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx), letting the
// service rebind its queries to each transaction it opens.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderResult is the persisted order with its lines and payments.
type CreateOrderResult struct {
	Order    database.Order
	Lines    []OrderLineResult
	Payments []database.OrderPayment
}

// OrderLineResult is a persisted line with its customizations.
type OrderLineResult struct {
	Line           database.OrderLine
	Customizations []database.OrderLineCustomization
}

// OrderService turns a draft snapshot into a persisted order record. It
// never mutates the draft; clearing after success is the finalize flow's
// job.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates the snapshot and persists it atomically. Retries up
// to maxOrderNumberRetries times on order_number unique constraint
// violations (concurrent submissions can read the same MAX).
func (s *OrderService) CreateOrder(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error) {
	if !enum.ValidOrderType(snap.OrderType) {
		return nil, ErrInvalidOrderType
	}
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if snap.OrderType == enum.OrderTypeDelivery && snap.Customer == nil {
		return nil, ErrMissingCustomerForDelivery
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, snap, createdBy)
		if err == nil {
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNumberConflict checks for a unique constraint violation on the
// order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
	}
	return false
}

// createOrderTx executes the full order insertion in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	nextNum, err := store.GetNextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	orderNumber := fmt.Sprintf("PDV-%03d", nextNum)

	// Customer: a persisted customer is authoritative; otherwise the
	// freeform fields travel with the order record.
	customerID := pgtype.UUID{}
	customerName := pgtype.Text{}
	customerPhone := pgtype.Text{}
	if snap.Customer != nil {
		customerID = pgtype.UUID{Bytes: snap.Customer.ID, Valid: true}
		customerName = pgtype.Text{String: snap.Customer.Name, Valid: true}
		customerPhone = pgtype.Text{String: snap.Customer.Phone, Valid: true}
	} else {
		if snap.CustomerName != "" {
			customerName = pgtype.Text{String: snap.CustomerName, Valid: true}
		}
		if snap.CustomerPhone != "" {
			customerPhone = pgtype.Text{String: snap.CustomerPhone, Valid: true}
		}
	}

	courierID := pgtype.UUID{}
	if snap.Courier != nil {
		courierID = pgtype.UUID{Bytes: snap.Courier.ID, Valid: true}
	}

	observations := pgtype.Text{}
	if snap.Observations != "" {
		observations = pgtype.Text{String: snap.Observations, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderNumber:   orderNumber,
		OrderType:     snap.OrderType,
		Status:        enum.OrderStatusOpen,
		CustomerID:    customerID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		CourierID:     courierID,
		Subtotal:      decimalToNumeric(snap.Totals.Subtotal),
		DiscountTotal: decimalToNumeric(snap.Totals.DiscountTotal),
		ServiceTotal:  decimalToNumeric(snap.Totals.ServiceTotal),
		DeliveryFee:   decimalToNumeric(snap.Totals.DeliveryFee),
		TotalAmount:   decimalToNumeric(snap.Totals.Total),
		Observations:  observations,
		CreatedBy:     createdBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var lineResults []OrderLineResult
	for _, l := range snap.Lines {
		line, err := store.CreateOrderLine(ctx, database.CreateOrderLineParams{
			OrderID:   order.ID,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: decimalToNumeric(l.UnitPrice),
			Quantity:  l.Quantity,
			LineTotal: decimalToNumeric(l.Total()),
		})
		if err != nil {
			return nil, fmt.Errorf("create order line: %w", err)
		}

		var custResults []database.OrderLineCustomization
		for _, c := range l.Customizations {
			olc, err := store.CreateOrderLineCustomization(ctx, database.CreateOrderLineCustomizationParams{
				OrderLineID: line.ID,
				Name:        c.Name,
				UnitPrice:   decimalToNumeric(c.UnitPrice),
				Quantity:    c.Quantity,
			})
			if err != nil {
				return nil, fmt.Errorf("create order line customization: %w", err)
			}
			custResults = append(custResults, olc)
		}

		lineResults = append(lineResults, OrderLineResult{
			Line:           line,
			Customizations: custResults,
		})
	}

	var payments []database.OrderPayment
	for _, p := range snap.Payments {
		payment, err := store.CreateOrderPayment(ctx, database.CreateOrderPaymentParams{
			OrderID: order.ID,
			Method:  p.Method,
			Amount:  decimalToNumeric(p.Value),
		})
		if err != nil {
			return nil, fmt.Errorf("create order payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{
		Order:    order,
		Lines:    lineResults,
		Payments: payments,
	}, nil
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
