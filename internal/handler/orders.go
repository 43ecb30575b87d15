package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/enum"
)

// OrderReadStore defines the database methods needed to browse persisted
// orders. Satisfied by *database.Queries.
type OrderReadStore interface {
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderLinesByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderLine, error)
	ListOrderLineCustomizations(ctx context.Context, orderLineID uuid.UUID) ([]database.OrderLineCustomization, error)
	ListOrderPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderPayment, error)
}

// OrderHandler handles back-office order browsing endpoints. Orders are
// created only through the PDV finalize flow; this surface is read-only.
type OrderHandler struct {
	store OrderReadStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderReadStore) *OrderHandler {
	return &OrderHandler{store: store}
}

// RegisterRoutes registers order browsing endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// --- Response types ---

type orderSummaryResponse struct {
	ID            uuid.UUID  `json:"id"`
	OrderNumber   string     `json:"order_number"`
	OrderType     string     `json:"order_type"`
	Status        string     `json:"status"`
	CustomerName  *string    `json:"customer_name"`
	CustomerPhone *string    `json:"customer_phone"`
	CourierID     *uuid.UUID `json:"courier_id"`
	Subtotal      string     `json:"subtotal"`
	DiscountTotal string     `json:"discount_total"`
	ServiceTotal  string     `json:"service_total"`
	DeliveryFee   string     `json:"delivery_fee"`
	TotalAmount   string     `json:"total_amount"`
	Observations  *string    `json:"observations"`
	CreatedAt     time.Time  `json:"created_at"`
}

type orderLineResponse struct {
	ID             uuid.UUID                        `json:"id"`
	ProductID      uuid.UUID                        `json:"product_id"`
	Name           string                           `json:"name"`
	UnitPrice      string                           `json:"unit_price"`
	Quantity       int32                            `json:"quantity"`
	LineTotal      string                           `json:"line_total"`
	Customizations []orderLineCustomizationResponse `json:"customizations"`
}

type orderLineCustomizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int32     `json:"quantity"`
}

type orderPaymentResponse struct {
	ID     uuid.UUID `json:"id"`
	Method string    `json:"method"`
	Amount string    `json:"amount"`
}

type orderDetailResponse struct {
	orderSummaryResponse
	Lines    []orderLineResponse    `json:"lines"`
	Payments []orderPaymentResponse `json:"payments"`
}

func toOrderSummaryResponse(o database.Order) orderSummaryResponse {
	resp := orderSummaryResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		OrderType:     o.OrderType,
		Status:        o.Status,
		Subtotal:      numericMoneyString(o.Subtotal),
		DiscountTotal: numericMoneyString(o.DiscountTotal),
		ServiceTotal:  numericMoneyString(o.ServiceTotal),
		DeliveryFee:   numericMoneyString(o.DeliveryFee),
		TotalAmount:   numericMoneyString(o.TotalAmount),
		CreatedAt:     o.CreatedAt,
	}
	if o.CustomerName.Valid {
		resp.CustomerName = &o.CustomerName.String
	}
	if o.CustomerPhone.Valid {
		resp.CustomerPhone = &o.CustomerPhone.String
	}
	if o.CourierID.Valid {
		id := uuid.UUID(o.CourierID.Bytes)
		resp.CourierID = &id
	}
	if o.Observations.Valid {
		resp.Observations = &o.Observations.String
	}
	return resp
}

// --- Handlers ---

// List returns persisted orders, newest first, optionally filtered by status
// and order type.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseListParams(r)

	params := database.ListOrdersParams{Limit: limit, Offset: offset}
	if v := r.URL.Query().Get("status"); v != "" {
		switch v {
		case enum.OrderStatusOpen, enum.OrderStatusPreparing, enum.OrderStatusDelivered, enum.OrderStatusCancelled:
			params.Status = pgtype.Text{String: v, Valid: true}
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
			return
		}
	}
	if v := r.URL.Query().Get("order_type"); v != "" {
		if !enum.ValidOrderType(v) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_type"})
			return
		}
		params.OrderType = pgtype.Text{String: v, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderSummaryResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderSummaryResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns one order with its lines, customizations and payments.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	lines, err := h.store.ListOrderLinesByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order lines: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	lineResponses := make([]orderLineResponse, len(lines))
	for i, l := range lines {
		customizations, err := h.store.ListOrderLineCustomizations(r.Context(), l.ID)
		if err != nil {
			log.Printf("ERROR: list order line customizations: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		custResponses := make([]orderLineCustomizationResponse, len(customizations))
		for j, c := range customizations {
			custResponses[j] = orderLineCustomizationResponse{
				ID:        c.ID,
				Name:      c.Name,
				UnitPrice: numericMoneyString(c.UnitPrice),
				Quantity:  c.Quantity,
			}
		}

		lineResponses[i] = orderLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Name:           l.Name,
			UnitPrice:      numericMoneyString(l.UnitPrice),
			Quantity:       l.Quantity,
			LineTotal:      numericMoneyString(l.LineTotal),
			Customizations: custResponses,
		}
	}

	payments, err := h.store.ListOrderPaymentsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	paymentResponses := make([]orderPaymentResponse, len(payments))
	for i, p := range payments {
		paymentResponses[i] = orderPaymentResponse{
			ID:     p.ID,
			Method: p.Method,
			Amount: numericMoneyString(p.Amount),
		}
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		orderSummaryResponse: toOrderSummaryResponse(order),
		Lines:                lineResponses,
		Payments:             paymentResponses,
	})
}
