package draft

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/braseiro-pdv/api/internal/enum"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func product(name, price string) CatalogProduct {
	return CatalogProduct{ID: uuid.New(), Name: name, Price: dec(price)}
}

func assertDec(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s: got %s, want %s", label, got, want)
	}
}

// =====================
// Line mutations
// =====================

func TestAddLine_NeverMerges(t *testing.T) {
	d := New(decimal.Zero)
	p := product("X-Burger", "20.00")

	a := d.AddLine(p, 1, nil)
	b := d.AddLine(p, 1, nil)

	if a.ID == b.ID {
		t.Fatal("two insertions of the same catalog product must produce distinct line ids")
	}
	snap := d.Snapshot()
	if len(snap.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(snap.Lines))
	}
}

func TestAddLine_ClampsQuantity(t *testing.T) {
	d := New(decimal.Zero)

	low := d.AddLine(product("Suco", "8.00"), 0, nil)
	if low.Quantity != 1 {
		t.Errorf("quantity 0 should clamp to 1, got %d", low.Quantity)
	}

	high := d.AddLine(product("Suco", "8.00"), 150, nil)
	if high.Quantity != 99 {
		t.Errorf("quantity 150 should clamp to 99, got %d", high.Quantity)
	}
}

func TestAddLine_PrunesZeroQuantityCustomizations(t *testing.T) {
	d := New(decimal.Zero)

	line := d.AddLine(product("Açaí", "15.00"), 1, []CustomizationSelection{
		{ID: uuid.New(), Name: "Granola", UnitPrice: dec("2.00"), Quantity: 1},
		{ID: uuid.New(), Name: "Leite em pó", UnitPrice: dec("1.50"), Quantity: 0},
		{ID: uuid.New(), Name: "Paçoca", UnitPrice: dec("1.00"), Quantity: -1},
	})

	if len(line.Customizations) != 1 {
		t.Fatalf("expected only the non-zero customization to survive, got %d", len(line.Customizations))
	}
	if line.Customizations[0].Name != "Granola" {
		t.Errorf("wrong customization kept: %s", line.Customizations[0].Name)
	}
}

func TestRemoveLine_Idempotent(t *testing.T) {
	d := New(decimal.Zero)
	line := d.AddLine(product("Pastel", "7.00"), 1, nil)

	d.RemoveLine(line.ID)
	d.RemoveLine(line.ID) // absent id, no-op
	d.RemoveLine(uuid.New())

	if n := len(d.Snapshot().Lines); n != 0 {
		t.Errorf("expected 0 lines, got %d", n)
	}
}

func TestUpdateLineQuantity(t *testing.T) {
	d := New(decimal.Zero)
	line := d.AddLine(product("Coxinha", "6.00"), 2, nil)

	d.UpdateLineQuantity(line.ID, 5)
	if got := d.Snapshot().Lines[0].Quantity; got != 5 {
		t.Errorf("quantity: got %d, want 5", got)
	}

	d.UpdateLineQuantity(line.ID, 500)
	if got := d.Snapshot().Lines[0].Quantity; got != 99 {
		t.Errorf("quantity above the cap should clamp to 99, got %d", got)
	}

	d.UpdateLineQuantity(uuid.New(), 3) // absent id, no-op
	if n := len(d.Snapshot().Lines); n != 1 {
		t.Fatalf("expected 1 line, got %d", n)
	}

	d.UpdateLineQuantity(line.ID, 0)
	if n := len(d.Snapshot().Lines); n != 0 {
		t.Errorf("quantity 0 should remove the line, got %d lines", n)
	}
}

// =====================
// Derived totals
// =====================

func TestTotals_SubtotalSumsIndependentLines(t *testing.T) {
	d := New(decimal.Zero)
	p := product("Marmita", "18.00")

	// Same catalog product, different customizations: lines share nothing.
	d.AddLine(p, 2, nil)
	d.AddLine(p, 1, []CustomizationSelection{
		{ID: uuid.New(), Name: "Arroz extra", UnitPrice: dec("3.00"), Quantity: 2},
	})

	// 18*2 + (18*1 + 3*2) = 36 + 24 = 60
	assertDec(t, "subtotal", d.Totals().Subtotal, "60.00")
}

func TestTotals_SpecScenario(t *testing.T) {
	// Two lines, 10% discount, delivery fee 5:
	//   Burger 20 x2 = 40, Soda 5 x1 + Extra Ice 0 x1 = 5
	//   subtotal 45, discount 4.5, total 45.5
	d := New(dec("5.00"))
	d.SetOrderType(enum.OrderTypeDelivery)

	d.AddLine(product("Burger", "20.00"), 2, nil)
	d.AddLine(product("Soda", "5.00"), 1, []CustomizationSelection{
		{ID: uuid.New(), Name: "Extra Ice", UnitPrice: dec("0"), Quantity: 1},
	})
	d.AddDiscount(Adjustment{Kind: enum.AdjustmentPercentage, Value: dec("10")})

	totals := d.Totals()
	assertDec(t, "subtotal", totals.Subtotal, "45.00")
	assertDec(t, "discount total", totals.DiscountTotal, "4.50")
	assertDec(t, "delivery fee", totals.DeliveryFee, "5.00")
	assertDec(t, "total", totals.Total, "45.50")
}

func TestTotals_NeverNegative(t *testing.T) {
	d := New(decimal.Zero)
	d.AddLine(product("Café", "4.00"), 1, nil)
	d.AddDiscount(Adjustment{Kind: enum.AdjustmentFixed, Value: dec("999.00")})

	totals := d.Totals()
	assertDec(t, "clamped total", totals.Total, "0.00")
	// Excess discount is absorbed, not carried forward as credit.
	d.AddServiceCharge(Adjustment{Kind: enum.AdjustmentFixed, Value: dec("2.00")})
	assertDec(t, "total after service charge", d.Totals().Total, "0.00")
}

func TestTotals_PercentageDiscountsNotCompounded(t *testing.T) {
	d := New(decimal.Zero)
	d.AddLine(product("Feijoada", "100.00"), 1, nil)

	d.AddDiscount(Adjustment{Kind: enum.AdjustmentPercentage, Value: dec("100")})
	assertDec(t, "100% discount alone", d.Totals().DiscountTotal, "100.00")

	// A second discount computes against the same pre-discount subtotal,
	// never against the already-discounted amount.
	d.AddDiscount(Adjustment{Kind: enum.AdjustmentPercentage, Value: dec("10")})
	totals := d.Totals()
	assertDec(t, "stacked discount total", totals.DiscountTotal, "110.00")
	assertDec(t, "total", totals.Total, "0.00")
}

func TestTotals_ServiceChargesAndFee(t *testing.T) {
	d := New(decimal.Zero)
	d.AddLine(product("Pizza", "50.00"), 1, nil)
	d.AddServiceCharge(Adjustment{Kind: enum.AdjustmentPercentage, Value: dec("10"), Label: "Taxa de serviço"})
	d.SetDeliveryFee(dec("8.00"))

	totals := d.Totals()
	assertDec(t, "service total", totals.ServiceTotal, "5.00")
	assertDec(t, "total", totals.Total, "63.00")
}

// =====================
// Order type and fees
// =====================

func TestSetOrderType_DeliveryFeeReset(t *testing.T) {
	d := New(dec("7.00"))

	d.SetOrderType(enum.OrderTypeDelivery)
	assertDec(t, "fee entering delivery", d.Totals().DeliveryFee, "7.00")

	d.SetDeliveryFee(dec("12.00")) // external distance pricing
	assertDec(t, "overridden fee", d.Totals().DeliveryFee, "12.00")

	d.SetOrderType(enum.OrderTypePickup)
	assertDec(t, "fee leaving delivery", d.Totals().DeliveryFee, "0.00")
}

func TestSetOrderType_KeepsCartAndCustomer(t *testing.T) {
	d := New(dec("5.00"))
	d.AddLine(product("Esfiha", "5.50"), 3, nil)
	d.SelectCustomer(&Customer{ID: uuid.New(), Name: "Ana", Phone: "11 99999-0000"})
	d.AddDiscount(Adjustment{Kind: enum.AdjustmentFixed, Value: dec("1.00")})

	d.SetOrderType(enum.OrderTypeDelivery)
	snap := d.Snapshot()
	if len(snap.Lines) != 1 || snap.Customer == nil || len(snap.Discounts) != 1 {
		t.Error("switching order type mid-build must not clear lines, customer or adjustments")
	}
}

// =====================
// Adjustments and payments
// =====================

func TestAdjustments_DuplicatesPermitted(t *testing.T) {
	d := New(decimal.Zero)
	d.AddLine(product("Tapioca", "10.00"), 1, nil)

	a := Adjustment{Kind: enum.AdjustmentFixed, Value: dec("2.00")}
	id1 := d.AddDiscount(a)
	id2 := d.AddDiscount(a)
	if id1 == id2 {
		t.Fatal("duplicate adjustments must get distinct ids")
	}
	assertDec(t, "duplicate discounts", d.Totals().DiscountTotal, "4.00")

	d.RemoveDiscount(id1)
	assertDec(t, "after removing one", d.Totals().DiscountTotal, "2.00")
	d.RemoveDiscount(id1) // absent, no-op
	assertDec(t, "idempotent removal", d.Totals().DiscountTotal, "2.00")
}

func TestPayments_SplitSum(t *testing.T) {
	d := New(decimal.Zero)
	d.AddLine(product("Rodízio", "89.90"), 1, nil)

	d.AddPayment(enum.PaymentMethodCash, dec("50.00"))
	pix := d.AddPayment(enum.PaymentMethodPix, dec("39.90"))

	assertDec(t, "paid", d.Totals().Paid, "89.90")
	if !d.PaymentCovered() {
		t.Error("payments covering the total should report covered")
	}

	d.RemovePayment(pix)
	assertDec(t, "paid after removal", d.Totals().Paid, "50.00")
	if d.PaymentCovered() {
		t.Error("partial payment should not report covered")
	}
}

// =====================
// Clear
// =====================

func TestClear_MatchesFreshDraft(t *testing.T) {
	d := New(dec("5.00"))
	d.SetOrderType(enum.OrderTypeDelivery)
	d.AddLine(product("Burger", "20.00"), 2, nil)
	d.SelectCustomer(&Customer{ID: uuid.New(), Name: "Bruno", Phone: "11 98888-1111"})
	d.SelectCourier(&Courier{ID: uuid.New(), Name: "Léo", Status: enum.CourierStatusAvailable})
	d.AddDiscount(Adjustment{Kind: enum.AdjustmentPercentage, Value: dec("10")})
	d.AddServiceCharge(Adjustment{Kind: enum.AdjustmentFixed, Value: dec("3.00")})
	d.SetObservations("sem cebola")
	d.SetCustomerName("Bruno")
	d.SetCustomerPhone("11 98888-1111")
	d.AddPayment(enum.PaymentMethodCard, dec("40.00"))
	d.SetPaymentComplete(true)
	d.SetCustomerDataComplete(true)

	d.Clear()

	got := d.Snapshot()
	fresh := New(dec("5.00")).Snapshot()

	if got.OrderType != fresh.OrderType {
		t.Errorf("order type: got %s, want %s", got.OrderType, fresh.OrderType)
	}
	if len(got.Lines) != 0 || len(got.Discounts) != 0 || len(got.ServiceCharges) != 0 || len(got.Payments) != 0 {
		t.Error("cleared draft still holds lines, adjustments or payments")
	}
	if got.Customer != nil || got.Courier != nil {
		t.Error("cleared draft still holds customer or courier")
	}
	if got.Observations != "" || got.CustomerName != "" || got.CustomerPhone != "" {
		t.Error("cleared draft still holds text fields")
	}
	if got.PaymentComplete || got.CustomerDataComplete {
		t.Error("cleared draft still holds completion flags")
	}
	assertDec(t, "cleared total", got.Totals.Total, "0.00")
	assertDec(t, "cleared delivery fee", got.Totals.DeliveryFee, "0.00")
}

// =====================
// Snapshot isolation
// =====================

func TestSnapshot_IsACopy(t *testing.T) {
	d := New(decimal.Zero)
	d.AddLine(product("Sanduíche", "12.00"), 1, []CustomizationSelection{
		{ID: uuid.New(), Name: "Queijo extra", UnitPrice: dec("2.50"), Quantity: 1},
	})
	d.SelectCustomer(&Customer{ID: uuid.New(), Name: "Carla", Phone: "11 97777-2222",
		Addresses: []Address{{Street: "Rua A", Number: "10", City: "São Paulo"}}})

	snap := d.Snapshot()
	snap.Lines[0].Quantity = 42
	snap.Lines[0].Customizations[0].Quantity = 42
	snap.Customer.Name = "alterado"
	snap.Customer.Addresses[0].Street = "alterada"

	fresh := d.Snapshot()
	if fresh.Lines[0].Quantity != 1 || fresh.Lines[0].Customizations[0].Quantity != 1 {
		t.Error("mutating a snapshot line leaked into the draft")
	}
	if fresh.Customer.Name != "Carla" || fresh.Customer.Addresses[0].Street != "Rua A" {
		t.Error("mutating a snapshot customer leaked into the draft")
	}
}
