package draft

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/braseiro-pdv/api/internal/enum"
	"github.com/braseiro-pdv/api/internal/money"
)

// CatalogProduct is the slice of the catalog the draft needs when a line is
// inserted. Price and image are copied at insertion time; later catalog edits
// never touch lines already in the cart.
type CatalogProduct struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

// CustomizationSelection is a paid or free add-on attached to a single line.
// A selection with quantity 0 is equivalent to absence and is pruned on insert.
type CustomizationSelection struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int32
}

// OrderLine is one cart entry. ID is unique per insertion, not the catalog
// product id: adding the same product twice creates two independent lines,
// because each may carry different customizations.
type OrderLine struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	Name           string
	UnitPrice      decimal.Decimal
	ImageURL       string
	Quantity       int32
	Customizations []CustomizationSelection
}

// Total returns unit_price*quantity plus every customization contribution.
func (l OrderLine) Total() decimal.Decimal {
	total := l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
	for _, c := range l.Customizations {
		total = total.Add(c.UnitPrice.Mul(decimal.NewFromInt32(c.Quantity)))
	}
	return total
}

// Adjustment is a whole-order discount or service charge.
type Adjustment struct {
	ID    uuid.UUID
	Kind  string // enum.AdjustmentPercentage or enum.AdjustmentFixed
	Label string
	Value decimal.Decimal
}

// AmountAgainst resolves the adjustment to a concrete amount. Percentage
// adjustments apply against the pre-adjustment subtotal, never against the
// output of other adjustments.
func (a Adjustment) AmountAgainst(subtotal decimal.Decimal) decimal.Decimal {
	if a.Kind == enum.AdjustmentPercentage {
		return money.Percent(subtotal, a.Value)
	}
	return a.Value
}

// Address is a delivery address on a persisted customer.
type Address struct {
	Street     string
	Number     string
	District   string
	City       string
	Complement string
}

// Customer is a persisted customer attached to the draft. When no persisted
// customer is attached, the draft's freeform name/phone fields are the
// fallback for order types that do not require an address.
type Customer struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Addresses []Address
}

// Courier is the delivery person assigned to a DELIVERY draft.
type Courier struct {
	ID     uuid.UUID
	Name   string
	Status string // enum.CourierStatus*
}

// PaymentEntry is one slice of a (possibly split) payment.
type PaymentEntry struct {
	ID     uuid.UUID
	Method string
	Value  decimal.Decimal
}

// Totals are the derived monetary values of a draft. They are recomputed on
// every read and never cached, so they cannot go stale.
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	ServiceTotal  decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	Paid          decimal.Decimal
}
