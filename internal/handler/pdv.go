package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/draft"
	"github.com/braseiro-pdv/api/internal/enum"
	"github.com/braseiro-pdv/api/internal/middleware"
	"github.com/braseiro-pdv/api/internal/money"
	"github.com/braseiro-pdv/api/internal/service"
	"github.com/braseiro-pdv/api/internal/session"
)

// PDVStore defines the catalog and registry lookups the PDV needs while a
// draft is being assembled. Satisfied by *database.Queries.
type PDVStore interface {
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	GetCustomization(ctx context.Context, id uuid.UUID) (database.Customization, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	ListCustomerAddresses(ctx context.Context, customerID uuid.UUID) ([]database.CustomerAddress, error)
	GetCourier(ctx context.Context, id uuid.UUID) (database.Courier, error)
	GetActiveCouponByCode(ctx context.Context, code string) (database.Coupon, error)
}

// OrderFinalizer runs the finalize flow. Satisfied by *service.Finalizer.
type OrderFinalizer interface {
	Finalize(ctx context.Context, terminalID string, d *draft.Draft, createdBy uuid.UUID) (*service.CreateOrderResult, error)
}

// PDVHandler exposes the live order-assembly surface used by cashier
// terminals: one session per terminal, every mutation returns the fresh
// draft view so the UI never computes money on its own.
type PDVHandler struct {
	sessions  *session.Manager
	store     PDVStore
	finalizer OrderFinalizer
}

// NewPDVHandler creates a new PDVHandler.
func NewPDVHandler(sessions *session.Manager, store PDVStore, finalizer OrderFinalizer) *PDVHandler {
	return &PDVHandler{sessions: sessions, store: store, finalizer: finalizer}
}

// RegisterRoutes registers PDV session endpoints on the given Chi router.
func (h *PDVHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.OpenSession)
	r.Route("/{sid}", func(r chi.Router) {
		r.Get("/", h.GetDraft)
		r.Delete("/", h.CloseSession)
		r.Put("/order-type", h.SetOrderType)
		r.Post("/lines", h.AddLine)
		r.Patch("/lines/{lid}", h.UpdateLineQuantity)
		r.Delete("/lines/{lid}", h.RemoveLine)
		r.Put("/customer", h.SetCustomer)
		r.Put("/customer-info", h.SetCustomerInfo)
		r.Put("/courier", h.SetCourier)
		r.Post("/discounts", h.AddDiscount)
		r.Delete("/discounts/{aid}", h.RemoveDiscount)
		r.Post("/service-charges", h.AddServiceCharge)
		r.Delete("/service-charges/{aid}", h.RemoveServiceCharge)
		r.Post("/coupon", h.ApplyCoupon)
		r.Put("/delivery-fee", h.SetDeliveryFee)
		r.Put("/observations", h.SetObservations)
		r.Post("/payments", h.AddPayment)
		r.Delete("/payments/{pid}", h.RemovePayment)
		r.Put("/flags", h.SetFlags)
		r.Get("/totals", h.GetTotals)
		r.Get("/readiness", h.GetReadiness)
		r.Get("/export", h.Export)
		r.Post("/clear", h.Clear)
		r.Post("/finalize", h.Finalize)
	})
}

// --- Request / Response types ---

type openSessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
}

type setOrderTypeRequest struct {
	OrderType string `json:"order_type"`
}

type addLineRequest struct {
	ProductID      string `json:"product_id"`
	Quantity       int32  `json:"quantity"`
	Customizations []struct {
		ID       string `json:"id"`
		Quantity int32  `json:"quantity"`
	} `json:"customizations"`
}

type updateLineQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type setCustomerRequest struct {
	CustomerID *string `json:"customer_id"`
}

type setCustomerInfoRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type setCourierRequest struct {
	CourierID *string `json:"courier_id"`
}

type adjustmentRequest struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

type setDeliveryFeeRequest struct {
	Value string `json:"value"`
}

type setObservationsRequest struct {
	Text string `json:"text"`
}

type addPaymentRequest struct {
	Method string `json:"method"`
	Value  string `json:"value"`
}

type setFlagsRequest struct {
	PaymentComplete      *bool `json:"payment_complete"`
	CustomerDataComplete *bool `json:"customer_data_complete"`
}

type finalizeRequest struct {
	TerminalID string `json:"terminal_id"`
}

type lineView struct {
	ID             uuid.UUID           `json:"id"`
	ProductID      uuid.UUID           `json:"product_id"`
	Name           string              `json:"name"`
	UnitPrice      string              `json:"unit_price"`
	ImageURL       string              `json:"image_url,omitempty"`
	Quantity       int32               `json:"quantity"`
	Customizations []customizationView `json:"customizations"`
	Total          string              `json:"total"`
	TotalDisplay   string              `json:"total_display"`
}

type customizationView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int32     `json:"quantity"`
}

type adjustmentView struct {
	ID    uuid.UUID `json:"id"`
	Kind  string    `json:"kind"`
	Label string    `json:"label"`
	Value string    `json:"value"`
}

type paymentView struct {
	ID     uuid.UUID `json:"id"`
	Method string    `json:"method"`
	Value  string    `json:"value"`
}

type totalsView struct {
	Subtotal      string `json:"subtotal"`
	DiscountTotal string `json:"discount_total"`
	ServiceTotal  string `json:"service_total"`
	DeliveryFee   string `json:"delivery_fee"`
	Total         string `json:"total"`
	TotalDisplay  string `json:"total_display"`
	Paid          string `json:"paid"`
}

type draftCustomerView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

type draftCourierView struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
}

type draftView struct {
	OrderType            string             `json:"order_type"`
	Lines                []lineView         `json:"lines"`
	Customer             *draftCustomerView `json:"customer"`
	CustomerName         string             `json:"customer_name"`
	CustomerPhone        string             `json:"customer_phone"`
	Courier              *draftCourierView  `json:"courier"`
	Discounts            []adjustmentView   `json:"discounts"`
	ServiceCharges       []adjustmentView   `json:"service_charges"`
	Observations         string             `json:"observations"`
	Payments             []paymentView      `json:"payments"`
	PaymentComplete      bool               `json:"payment_complete"`
	CustomerDataComplete bool               `json:"customer_data_complete"`
	Totals               totalsView         `json:"totals"`
}

type readinessView struct {
	State          string `json:"state"`
	Ready          bool   `json:"ready"`
	CanCreateOrder bool   `json:"can_create_order"`
	PaymentCovered bool   `json:"payment_covered"`
}

func toTotalsView(t draft.Totals) totalsView {
	return totalsView{
		Subtotal:      t.Subtotal.StringFixed(2),
		DiscountTotal: t.DiscountTotal.StringFixed(2),
		ServiceTotal:  t.ServiceTotal.StringFixed(2),
		DeliveryFee:   t.DeliveryFee.StringFixed(2),
		Total:         t.Total.StringFixed(2),
		TotalDisplay:  money.FormatBRL(t.Total),
		Paid:          t.Paid.StringFixed(2),
	}
}

func toDraftView(snap draft.Snapshot) draftView {
	view := draftView{
		OrderType:            snap.OrderType,
		Lines:                make([]lineView, len(snap.Lines)),
		CustomerName:         snap.CustomerName,
		CustomerPhone:        snap.CustomerPhone,
		Discounts:            make([]adjustmentView, len(snap.Discounts)),
		ServiceCharges:       make([]adjustmentView, len(snap.ServiceCharges)),
		Observations:         snap.Observations,
		Payments:             make([]paymentView, len(snap.Payments)),
		PaymentComplete:      snap.PaymentComplete,
		CustomerDataComplete: snap.CustomerDataComplete,
		Totals:               toTotalsView(snap.Totals),
	}
	for i, l := range snap.Lines {
		lv := lineView{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Name:           l.Name,
			UnitPrice:      l.UnitPrice.StringFixed(2),
			ImageURL:       l.ImageURL,
			Quantity:       l.Quantity,
			Customizations: make([]customizationView, len(l.Customizations)),
			Total:          l.Total().StringFixed(2),
			TotalDisplay:   money.FormatBRL(l.Total()),
		}
		for j, c := range l.Customizations {
			lv.Customizations[j] = customizationView{
				ID:        c.ID,
				Name:      c.Name,
				UnitPrice: c.UnitPrice.StringFixed(2),
				Quantity:  c.Quantity,
			}
		}
		view.Lines[i] = lv
	}
	for i, a := range snap.Discounts {
		view.Discounts[i] = adjustmentView{ID: a.ID, Kind: a.Kind, Label: a.Label, Value: a.Value.StringFixed(2)}
	}
	for i, a := range snap.ServiceCharges {
		view.ServiceCharges[i] = adjustmentView{ID: a.ID, Kind: a.Kind, Label: a.Label, Value: a.Value.StringFixed(2)}
	}
	for i, p := range snap.Payments {
		view.Payments[i] = paymentView{ID: p.ID, Method: p.Method, Value: p.Value.StringFixed(2)}
	}
	if snap.Customer != nil {
		view.Customer = &draftCustomerView{ID: snap.Customer.ID, Name: snap.Customer.Name, Phone: snap.Customer.Phone}
	}
	if snap.Courier != nil {
		view.Courier = &draftCourierView{ID: snap.Courier.ID, Name: snap.Courier.Name, Status: snap.Courier.Status}
	}
	return view
}

// --- Helpers ---

// sessionDraft resolves the {sid} URL param to its live draft. Writes the
// error response itself and returns ok=false when the session is unknown.
func (h *PDVHandler) sessionDraft(w http.ResponseWriter, r *http.Request) (*draft.Draft, bool) {
	sid, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return nil, false
	}
	d, ok := h.sessions.Get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return nil, false
	}
	return d, true
}

func numericToDec(n pgtype.Numeric) decimal.Decimal {
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

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errNegativePrice
	}
	return d, nil
}

// --- Session lifecycle ---

// OpenSession creates a fresh PDV session with an empty draft.
func (h *PDVHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	sid, _ := h.sessions.Open()
	writeJSON(w, http.StatusCreated, openSessionResponse{SessionID: sid})
}

// CloseSession discards a session and whatever draft it holds.
func (h *PDVHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sid, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	h.sessions.Close(sid)
	w.WriteHeader(http.StatusNoContent)
}

// GetDraft returns the full draft state with derived totals.
func (h *PDVHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// --- Mutations ---

// SetOrderType switches the draft's order type. Cart, customer and payments
// survive the switch; only the delivery fee is recomputed.
func (h *PDVHandler) SetOrderType(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req setOrderTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !enum.ValidOrderType(req.OrderType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order type"})
		return
	}

	d.SetOrderType(req.OrderType)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// AddLine inserts a new cart line. The product and its selected
// customizations are resolved against the catalog at insertion time; the
// line keeps those prices even if the catalog changes afterwards.
func (h *PDVHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product_id"})
		return
	}

	product, err := h.store.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: get product for line: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	var selections []draft.CustomizationSelection
	for _, c := range req.Customizations {
		custID, err := uuid.Parse(c.ID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customization id"})
			return
		}
		cust, err := h.store.GetCustomization(r.Context(), custID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "customization not found"})
				return
			}
			log.Printf("ERROR: get customization for line: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		if cust.ProductID != productID {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customization does not belong to product"})
			return
		}
		selections = append(selections, draft.CustomizationSelection{
			ID:        cust.ID,
			Name:      cust.Name,
			UnitPrice: numericToDec(cust.Price),
			Quantity:  c.Quantity,
		})
	}

	catalogProduct := draft.CatalogProduct{
		ID:    product.ID,
		Name:  product.Name,
		Price: numericToDec(product.Price),
	}
	if product.ImageURL.Valid {
		catalogProduct.ImageURL = product.ImageURL.String
	}

	d.AddLine(catalogProduct, req.Quantity, selections)
	writeJSON(w, http.StatusCreated, toDraftView(d.Snapshot()))
}

// UpdateLineQuantity sets a line's quantity. Zero removes the line.
func (h *PDVHandler) UpdateLineQuantity(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(chi.URLParam(r, "lid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line ID"})
		return
	}

	var req updateLineQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	d.UpdateLineQuantity(lineID, req.Quantity)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// RemoveLine deletes a cart line. Removing an absent line is a no-op.
func (h *PDVHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(chi.URLParam(r, "lid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line ID"})
		return
	}

	d.RemoveLine(lineID)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// SetCustomer attaches a persisted customer to the draft, or detaches when
// customer_id is null. The customer's saved addresses come along.
func (h *PDVHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req setCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CustomerID == nil {
		d.SelectCustomer(nil)
		writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
		return
	}

	customerID, err := uuid.Parse(*req.CustomerID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid customer_id"})
		return
	}

	customer, err := h.store.GetCustomer(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer for draft: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	addresses, err := h.store.ListCustomerAddresses(r.Context(), customerID)
	if err != nil {
		log.Printf("ERROR: list addresses for draft: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	customerDraft := &draft.Customer{
		ID:        customer.ID,
		Name:      customer.Name,
		Phone:     customer.Phone,
		Addresses: make([]draft.Address, len(addresses)),
	}
	for i, a := range addresses {
		addr := draft.Address{Street: a.Street, Number: a.Number, City: a.City}
		if a.District.Valid {
			addr.District = a.District.String
		}
		if a.Complement.Valid {
			addr.Complement = a.Complement.String
		}
		customerDraft.Addresses[i] = addr
	}

	d.SelectCustomer(customerDraft)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// SetCustomerInfo updates the freeform name and phone fields used when no
// persisted customer is attached. Only present fields are touched.
func (h *PDVHandler) SetCustomerInfo(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req setCustomerInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name != nil {
		d.SetCustomerName(*req.Name)
	}
	if req.Phone != nil {
		d.SetCustomerPhone(*req.Phone)
	}
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// SetCourier assigns a courier to the draft, or unassigns when courier_id is
// null.
func (h *PDVHandler) SetCourier(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req setCourierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CourierID == nil {
		d.SelectCourier(nil)
		writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
		return
	}

	courierID, err := uuid.Parse(*req.CourierID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid courier_id"})
		return
	}

	courier, err := h.store.GetCourier(r.Context(), courierID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "courier not found"})
			return
		}
		log.Printf("ERROR: get courier for draft: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	d.SelectCourier(&draft.Courier{ID: courier.ID, Name: courier.Name, Status: courier.Status})
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// addAdjustment is the shared body of AddDiscount and AddServiceCharge.
func (h *PDVHandler) addAdjustment(w http.ResponseWriter, r *http.Request, add func(*draft.Draft, draft.Adjustment) uuid.UUID) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req adjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !enum.ValidAdjustmentKind(req.Kind) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be PERCENTAGE or FIXED_AMOUNT"})
		return
	}

	value, err := parseMoney(req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid value"})
		return
	}

	add(d, draft.Adjustment{Kind: req.Kind, Label: req.Label, Value: value})
	writeJSON(w, http.StatusCreated, toDraftView(d.Snapshot()))
}

// AddDiscount adds a whole-order discount. Duplicates are permitted.
func (h *PDVHandler) AddDiscount(w http.ResponseWriter, r *http.Request) {
	h.addAdjustment(w, r, func(d *draft.Draft, a draft.Adjustment) uuid.UUID {
		return d.AddDiscount(a)
	})
}

// RemoveDiscount removes one discount by its ID.
func (h *PDVHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	h.removeAdjustment(w, r, (*draft.Draft).RemoveDiscount)
}

// AddServiceCharge adds a whole-order service charge.
func (h *PDVHandler) AddServiceCharge(w http.ResponseWriter, r *http.Request) {
	h.addAdjustment(w, r, func(d *draft.Draft, a draft.Adjustment) uuid.UUID {
		return d.AddServiceCharge(a)
	})
}

// RemoveServiceCharge removes one service charge by its ID.
func (h *PDVHandler) RemoveServiceCharge(w http.ResponseWriter, r *http.Request) {
	h.removeAdjustment(w, r, (*draft.Draft).RemoveServiceCharge)
}

func (h *PDVHandler) removeAdjustment(w http.ResponseWriter, r *http.Request, remove func(*draft.Draft, uuid.UUID)) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	adjID, err := uuid.Parse(chi.URLParam(r, "aid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid adjustment ID"})
		return
	}

	remove(d, adjID)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// ApplyCoupon resolves a coupon code against the registry and attaches it to
// the draft as a discount. Expired or inactive codes are rejected.
func (h *PDVHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req applyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}

	coupon, err := h.store.GetActiveCouponByCode(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "coupon not found or expired"})
			return
		}
		log.Printf("ERROR: get coupon: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	d.AddDiscount(draft.Adjustment{
		Kind:  coupon.Kind,
		Label: coupon.Code,
		Value: numericToDec(coupon.Value),
	})
	writeJSON(w, http.StatusCreated, toDraftView(d.Snapshot()))
}

// SetDeliveryFee overrides the delivery fee for this draft.
func (h *PDVHandler) SetDeliveryFee(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req setDeliveryFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	fee, err := parseMoney(req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid value"})
		return
	}

	d.SetDeliveryFee(fee)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// SetObservations replaces the order observations text.
func (h *PDVHandler) SetObservations(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req setObservationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	d.SetObservations(req.Text)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// AddPayment records one slice of a (possibly split) payment.
func (h *PDVHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Method == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "method is required"})
		return
	}

	value, err := parseMoney(req.Value)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid value"})
		return
	}

	d.AddPayment(req.Method, value)
	writeJSON(w, http.StatusCreated, toDraftView(d.Snapshot()))
}

// RemovePayment removes one payment entry by its ID.
func (h *PDVHandler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	paymentID, err := uuid.Parse(chi.URLParam(r, "pid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment ID"})
		return
	}

	d.RemovePayment(paymentID)
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// SetFlags toggles the payment and customer-data step-completion flags.
func (h *PDVHandler) SetFlags(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req setFlagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.PaymentComplete != nil {
		d.SetPaymentComplete(*req.PaymentComplete)
	}
	if req.CustomerDataComplete != nil {
		d.SetCustomerDataComplete(*req.CustomerDataComplete)
	}
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// --- Reads ---

// GetTotals returns the derived totals only.
func (h *PDVHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toTotalsView(d.Totals()))
}

// GetReadiness reports whether the draft can be finalized and why not.
func (h *PDVHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	readiness := d.Readiness()
	writeJSON(w, http.StatusOK, readinessView{
		State:          readiness.State,
		Ready:          readiness.Ready(),
		CanCreateOrder: d.CanCreateOrder(),
		PaymentCovered: d.PaymentCovered(),
	})
}

// Export renders the draft for sharing: plain text by default, JSON with
// ?format=json.
func (h *PDVHandler) Export(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	snap := d.Snapshot()
	switch r.URL.Query().Get("format") {
	case "", "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(snap.ExportText()))
	case "json":
		payload, err := snap.ExportJSON()
		if err != nil {
			log.Printf("ERROR: export draft: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be text or json"})
	}
}

// Clear resets the draft to empty. This is the cancel action; nothing else
// discards entered data.
func (h *PDVHandler) Clear(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	d.Clear()
	writeJSON(w, http.StatusOK, toDraftView(d.Snapshot()))
}

// Finalize submits the draft as an order. On success the draft resets and
// the new order's number is returned; on failure the draft is untouched.
func (h *PDVHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	d, ok := h.sessionDraft(w, r)
	if !ok {
		return
	}

	var req finalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.TerminalID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "terminal_id is required"})
		return
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	result, err := h.finalizer.Finalize(r.Context(), req.TerminalID, d, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentRequired):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "payment step not completed"})
		case errors.Is(err, draft.ErrNoLines),
			errors.Is(err, draft.ErrMissingCustomer),
			errors.Is(err, draft.ErrMissingName),
			errors.Is(err, draft.ErrMissingPhone),
			errors.Is(err, draft.ErrMissingCourier):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: finalize draft: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"order_id":     result.Order.ID.String(),
		"order_number": result.Order.OrderNumber,
	})
}
