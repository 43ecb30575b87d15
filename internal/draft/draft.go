// Package draft implements the in-memory PDV order-state engine: the single
// source of truth for an in-progress order. All mutation is funneled through
// named methods so derived totals stay consistent; nothing is persisted until
// the draft is submitted.
package draft

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/braseiro-pdv/api/internal/enum"
	"github.com/braseiro-pdv/api/internal/money"
)

// Line quantity bounds, enforced at the mutation entry points regardless of
// caller discipline.
const (
	MinLineQuantity = 1
	MaxLineQuantity = 99
)

// Draft is the aggregate root for one in-progress PDV order. Each PDV session
// owns exactly one live Draft; sessions never share an instance. The mutex
// only guards against concurrent HTTP handlers reaching the same session.
type Draft struct {
	mu sync.Mutex

	defaultDeliveryFee decimal.Decimal

	orderType      string
	lines          []OrderLine
	customer       *Customer
	courier        *Courier
	discounts      []Adjustment
	serviceCharges []Adjustment
	deliveryFee    decimal.Decimal
	observations   string
	customerName   string
	customerPhone  string
	payments       []PaymentEntry

	// Completion flags toggled by the payment/customer completion UIs.
	// They are deliberately not derived from payments or customer state;
	// the finalize flow recomputes and compares before trusting them.
	paymentComplete      bool
	customerDataComplete bool
}

// New creates an empty draft. defaultDeliveryFee is the flat fee applied when
// the draft switches into DELIVERY.
func New(defaultDeliveryFee decimal.Decimal) *Draft {
	return &Draft{
		defaultDeliveryFee: defaultDeliveryFee,
		orderType:          enum.OrderTypeDineIn,
	}
}

// Snapshot is a value copy of the draft used by the submission adapter, the
// export actions and the HTTP layer. Mutating a snapshot never touches the
// live draft.
type Snapshot struct {
	OrderType            string
	Lines                []OrderLine
	Customer             *Customer
	Courier              *Courier
	Discounts            []Adjustment
	ServiceCharges       []Adjustment
	DeliveryFee          decimal.Decimal
	Observations         string
	CustomerName         string
	CustomerPhone        string
	Payments             []PaymentEntry
	PaymentComplete      bool
	CustomerDataComplete bool
	Totals               Totals
}

// ── Mutations ──

// SetOrderType switches the order type. Switching into DELIVERY resets the
// delivery fee to the configured default; any other type zeroes it. Lines,
// customer and adjustments survive a mid-build type switch.
func (d *Draft) SetOrderType(orderType string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.orderType = orderType
	if orderType == enum.OrderTypeDelivery {
		d.deliveryFee = d.defaultDeliveryFee
	} else {
		d.deliveryFee = decimal.Zero
	}
}

// AddLine appends a new line with a fresh id and returns it. It never merges
// with an existing line for the same catalog product. The quantity is clamped
// to [MinLineQuantity, MaxLineQuantity] here, at the single mutation entry
// point; zero-quantity customizations are pruned.
func (d *Draft) AddLine(p CatalogProduct, quantity int32, customizations []CustomizationSelection) OrderLine {
	d.mu.Lock()
	defer d.mu.Unlock()

	if quantity < MinLineQuantity {
		quantity = MinLineQuantity
	}
	if quantity > MaxLineQuantity {
		quantity = MaxLineQuantity
	}

	var kept []CustomizationSelection
	for _, c := range customizations {
		if c.Quantity <= 0 {
			continue
		}
		kept = append(kept, c)
	}

	line := OrderLine{
		ID:             uuid.New(),
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPrice:      p.Price,
		ImageURL:       p.ImageURL,
		Quantity:       quantity,
		Customizations: kept,
	}
	d.lines = append(d.lines, line)
	return line
}

// RemoveLine removes the line with the given id. Removing an absent id is a
// no-op.
func (d *Draft) RemoveLine(lineID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeLineLocked(lineID)
}

func (d *Draft) removeLineLocked(lineID uuid.UUID) {
	for i, l := range d.lines {
		if l.ID == lineID {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return
		}
	}
}

// UpdateLineQuantity replaces a line's quantity. A quantity <= 0 removes the
// line; quantities above MaxLineQuantity are clamped.
func (d *Draft) UpdateLineQuantity(lineID uuid.UUID, quantity int32) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if quantity <= 0 {
		d.removeLineLocked(lineID)
		return
	}
	if quantity > MaxLineQuantity {
		quantity = MaxLineQuantity
	}
	for i := range d.lines {
		if d.lines[i].ID == lineID {
			d.lines[i].Quantity = quantity
			return
		}
	}
}

// SelectCustomer attaches a persisted customer; nil detaches. The attached
// customer is authoritative over the freeform name/phone fields while set.
func (d *Draft) SelectCustomer(c *Customer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c == nil {
		d.customer = nil
		return
	}
	cp := *c
	cp.Addresses = append([]Address(nil), c.Addresses...)
	d.customer = &cp
}

// SelectCourier assigns a delivery person; nil unassigns.
func (d *Draft) SelectCourier(c *Courier) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c == nil {
		d.courier = nil
		return
	}
	cp := *c
	d.courier = &cp
}

// AddDiscount appends a discount. Duplicates are permitted and never merged.
// A zero adjustment id is replaced with a fresh one; the resolved id is
// returned.
func (d *Draft) AddDiscount(a Adjustment) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	d.discounts = append(d.discounts, a)
	return a.ID
}

// RemoveDiscount removes the discount with the given id; absent ids are a
// no-op.
func (d *Draft) RemoveDiscount(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.discounts = removeAdjustment(d.discounts, id)
}

// AddServiceCharge appends a service charge, same semantics as AddDiscount.
func (d *Draft) AddServiceCharge(a Adjustment) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	d.serviceCharges = append(d.serviceCharges, a)
	return a.ID
}

// RemoveServiceCharge removes the service charge with the given id.
func (d *Draft) RemoveServiceCharge(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.serviceCharges = removeAdjustment(d.serviceCharges, id)
}

func removeAdjustment(list []Adjustment, id uuid.UUID) []Adjustment {
	for i, a := range list {
		if a.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// SetDeliveryFee overrides the delivery fee, used when distance pricing is
// computed externally.
func (d *Draft) SetDeliveryFee(fee decimal.Decimal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deliveryFee = fee
}

// SetObservations replaces the free-text order observations.
func (d *Draft) SetObservations(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observations = text
}

// SetCustomerName sets the freeform fallback customer name.
func (d *Draft) SetCustomerName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customerName = name
}

// SetCustomerPhone sets the freeform fallback customer phone.
func (d *Draft) SetCustomerPhone(phone string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customerPhone = phone
}

// AddPayment records one split-payment entry and returns its id.
func (d *Draft) AddPayment(method string, value decimal.Decimal) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry := PaymentEntry{ID: uuid.New(), Method: method, Value: value}
	d.payments = append(d.payments, entry)
	return entry.ID
}

// RemovePayment removes a payment entry; absent ids are a no-op.
func (d *Draft) RemovePayment(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, p := range d.payments {
		if p.ID == id {
			d.payments = append(d.payments[:i], d.payments[i+1:]...)
			return
		}
	}
}

// SetPaymentComplete toggles the payment completion flag.
func (d *Draft) SetPaymentComplete(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paymentComplete = v
}

// SetCustomerDataComplete toggles the customer-data completion flag.
func (d *Draft) SetCustomerDataComplete(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.customerDataComplete = v
}

// Clear resets the draft to its empty initial state. Called after a
// successful submission and exposed as the explicit cancel action. Nothing
// else ever discards entered data.
func (d *Draft) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.orderType = enum.OrderTypeDineIn
	d.lines = nil
	d.customer = nil
	d.courier = nil
	d.discounts = nil
	d.serviceCharges = nil
	d.deliveryFee = decimal.Zero
	d.observations = ""
	d.customerName = ""
	d.customerPhone = ""
	d.payments = nil
	d.paymentComplete = false
	d.customerDataComplete = false
}

// ── Reads ──

// OrderType returns the current order type.
func (d *Draft) OrderType() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.orderType
}

// PaymentComplete reports whether the cashier marked the payment step done.
func (d *Draft) PaymentComplete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paymentComplete
}

// CustomerDataComplete reports whether the customer-data step was confirmed.
func (d *Draft) CustomerDataComplete() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.customerDataComplete
}

// Totals walks the current lines and adjustments and returns the derived
// monetary values. Percentage discounts apply against the pre-adjustment
// subtotal; the grand total is clamped at zero so stacked discounts can never
// drive the order into credit.
func (d *Draft) Totals() Totals {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalsLocked()
}

func (d *Draft) totalsLocked() Totals {
	subtotal := decimal.Zero
	for _, l := range d.lines {
		subtotal = subtotal.Add(l.Total())
	}

	discountTotal := decimal.Zero
	for _, a := range d.discounts {
		discountTotal = discountTotal.Add(a.AmountAgainst(subtotal))
	}

	serviceTotal := decimal.Zero
	for _, a := range d.serviceCharges {
		serviceTotal = serviceTotal.Add(a.AmountAgainst(subtotal))
	}

	paid := decimal.Zero
	for _, p := range d.payments {
		paid = paid.Add(p.Value)
	}

	total := money.ClampZero(subtotal.Sub(discountTotal).Add(serviceTotal).Add(d.deliveryFee))

	return Totals{
		Subtotal:      subtotal,
		DiscountTotal: discountTotal,
		ServiceTotal:  serviceTotal,
		DeliveryFee:   d.deliveryFee,
		Total:         total,
		Paid:          paid,
	}
}

// Snapshot returns a value copy of the whole draft plus its derived totals.
func (d *Draft) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		OrderType:            d.orderType,
		Lines:                make([]OrderLine, len(d.lines)),
		Discounts:            append([]Adjustment(nil), d.discounts...),
		ServiceCharges:       append([]Adjustment(nil), d.serviceCharges...),
		DeliveryFee:          d.deliveryFee,
		Observations:         d.observations,
		CustomerName:         d.customerName,
		CustomerPhone:        d.customerPhone,
		Payments:             append([]PaymentEntry(nil), d.payments...),
		PaymentComplete:      d.paymentComplete,
		CustomerDataComplete: d.customerDataComplete,
		Totals:               d.totalsLocked(),
	}
	for i, l := range d.lines {
		l.Customizations = append([]CustomizationSelection(nil), l.Customizations...)
		snap.Lines[i] = l
	}
	if d.customer != nil {
		c := *d.customer
		c.Addresses = append([]Address(nil), d.customer.Addresses...)
		snap.Customer = &c
	}
	if d.courier != nil {
		c := *d.courier
		snap.Courier = &c
	}
	return snap
}

// resolvedName returns the authoritative customer name: the attached
// customer's, else the freeform fallback. Whitespace-only counts as blank.
func (d *Draft) resolvedName() string {
	if d.customer != nil && strings.TrimSpace(d.customer.Name) != "" {
		return strings.TrimSpace(d.customer.Name)
	}
	return strings.TrimSpace(d.customerName)
}

func (d *Draft) resolvedPhone() string {
	if d.customer != nil && strings.TrimSpace(d.customer.Phone) != "" {
		return strings.TrimSpace(d.customer.Phone)
	}
	return strings.TrimSpace(d.customerPhone)
}
