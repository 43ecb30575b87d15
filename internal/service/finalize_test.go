package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/braseiro-pdv/api/internal/database"
	"github.com/braseiro-pdv/api/internal/draft"
	"github.com/braseiro-pdv/api/internal/enum"
)

type mockOrderCreator struct {
	createOrderFn func(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error)
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error) {
	return m.createOrderFn(ctx, snap, createdBy)
}

type mockNotifier struct {
	events []Notification
}

func (m *mockNotifier) Notify(terminalID string, event Notification) {
	m.events = append(m.events, event)
}

func (m *mockNotifier) lastLevel() string {
	if len(m.events) == 0 {
		return ""
	}
	return m.events[len(m.events)-1].Level
}

func readyDraft(t *testing.T) *draft.Draft {
	t.Helper()
	d := draft.New(serviceDec("5.00"))
	d.AddLine(draft.CatalogProduct{ID: uuid.New(), Name: "X-Burger", Price: serviceDec("20.00")}, 1, nil)
	d.SetCustomerName("Maria")
	d.SetCustomerPhone("11 97777-0000")
	d.AddPayment(enum.PaymentMethodCard, serviceDec("20.00"))
	d.SetPaymentComplete(true)
	return d
}

func successfulCreator(orderNumber string) *mockOrderCreator {
	return &mockOrderCreator{
		createOrderFn: func(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error) {
			return &CreateOrderResult{Order: database.Order{ID: uuid.New(), OrderNumber: orderNumber}}, nil
		},
	}
}

func TestFinalize_SuccessClearsDraftAndNotifies(t *testing.T) {
	notifier := &mockNotifier{}
	f := NewFinalizer(successfulCreator("PDV-012"), notifier)
	d := readyDraft(t)

	result, err := f.Finalize(context.Background(), "caixa-1", d, uuid.New())
	if err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	if result.Order.OrderNumber != "PDV-012" {
		t.Errorf("order number = %q, want PDV-012", result.Order.OrderNumber)
	}
	if len(d.Snapshot().Lines) != 0 {
		t.Error("expected draft to be cleared after success")
	}
	if len(notifier.events) != 1 || notifier.events[0].Type != "order_created" {
		t.Fatalf("expected a single order_created event, got %+v", notifier.events)
	}
	if notifier.events[0].OrderNumber != "PDV-012" {
		t.Errorf("event order number = %q", notifier.events[0].OrderNumber)
	}
}

func TestFinalize_PaymentFlagGate(t *testing.T) {
	notifier := &mockNotifier{}
	creator := &mockOrderCreator{
		createOrderFn: func(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error) {
			t.Fatal("CreateOrder must not be called when payment is not complete")
			return nil, nil
		},
	}
	f := NewFinalizer(creator, notifier)
	d := readyDraft(t)
	d.SetPaymentComplete(false)

	_, err := f.Finalize(context.Background(), "caixa-1", d, uuid.New())
	if !errors.Is(err, ErrPaymentRequired) {
		t.Errorf("expected ErrPaymentRequired, got %v", err)
	}
	if notifier.lastLevel() != "error" {
		t.Errorf("expected an error toast, got %+v", notifier.events)
	}
	if len(d.Snapshot().Lines) != 1 {
		t.Error("draft must stay intact on failure")
	}
}

func TestFinalize_UncoveredPaymentWarnsButSubmits(t *testing.T) {
	notifier := &mockNotifier{}
	f := NewFinalizer(successfulCreator("PDV-013"), notifier)
	d := readyDraft(t)
	d.RemovePayment(d.Snapshot().Payments[0].ID)
	d.AddPayment(enum.PaymentMethodCash, serviceDec("5.00"))

	if _, err := f.Finalize(context.Background(), "caixa-1", d, uuid.New()); err != nil {
		t.Fatalf("Finalize returned error: %v", err)
	}
	if len(notifier.events) != 2 {
		t.Fatalf("expected warning plus success, got %+v", notifier.events)
	}
	if notifier.events[0].Level != "warning" {
		t.Errorf("first event level = %q, want warning", notifier.events[0].Level)
	}
	if notifier.events[1].Type != "order_created" {
		t.Errorf("second event type = %q, want order_created", notifier.events[1].Type)
	}
}

func TestFinalize_ReadinessFailureKeepsDraft(t *testing.T) {
	notifier := &mockNotifier{}
	f := NewFinalizer(successfulCreator("PDV-014"), notifier)
	d := readyDraft(t)
	d.SetOrderType(enum.OrderTypeDelivery) // no customer attached

	_, err := f.Finalize(context.Background(), "caixa-1", d, uuid.New())
	if !errors.Is(err, draft.ErrMissingCustomer) {
		t.Errorf("expected ErrMissingCustomer, got %v", err)
	}
	if notifier.lastLevel() != "error" {
		t.Errorf("expected an error toast, got %+v", notifier.events)
	}
	if len(d.Snapshot().Lines) != 1 {
		t.Error("draft must stay intact on failure")
	}
}

func TestFinalize_SubmissionFailureKeepsDraft(t *testing.T) {
	notifier := &mockNotifier{}
	boom := errors.New("db down")
	creator := &mockOrderCreator{
		createOrderFn: func(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error) {
			return nil, boom
		},
	}
	f := NewFinalizer(creator, notifier)
	d := readyDraft(t)

	_, err := f.Finalize(context.Background(), "caixa-1", d, uuid.New())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped submission error, got %v", err)
	}
	if notifier.lastLevel() != "error" {
		t.Errorf("expected an error toast, got %+v", notifier.events)
	}
	if len(d.Snapshot().Lines) != 1 {
		t.Error("draft must stay intact on failure")
	}
}
