package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/braseiro-pdv/api/internal/draft"
)

// ErrPaymentRequired is returned when finalize is attempted before the
// cashier has flagged the payment step as complete.
var ErrPaymentRequired = errors.New("payment step not completed")

// OrderCreator persists a draft snapshot as an order. Satisfied by
// *OrderService.
type OrderCreator interface {
	CreateOrder(ctx context.Context, snap draft.Snapshot, createdBy uuid.UUID) (*CreateOrderResult, error)
}

// Notification is a terminal-facing event pushed over the websocket hub.
type Notification struct {
	Type        string `json:"type"`
	Level       string `json:"level"`
	Message     string `json:"message"`
	OrderNumber string `json:"order_number,omitempty"`
}

// Notifier delivers notifications to a single PDV terminal. Satisfied by
// *ws.Hub.
type Notifier interface {
	Notify(terminalID string, event Notification)
}

// Finalizer runs the finalize flow for a PDV terminal: gate on payment and
// readiness, submit, and reset the draft only after the order is persisted.
type Finalizer struct {
	orders   OrderCreator
	notifier Notifier
}

// NewFinalizer creates a new Finalizer.
func NewFinalizer(orders OrderCreator, notifier Notifier) *Finalizer {
	return &Finalizer{orders: orders, notifier: notifier}
}

// Finalize submits the draft as an order. The draft is left untouched on
// every failure path so the cashier can correct and retry; it is cleared
// only after the order is committed.
//
// The payment-complete flag is the cashier's word. When the flag disagrees
// with the recomputed coverage the terminal gets a warning but the order
// still goes through: partial payment on delivery (pay the courier) is a
// legitimate flow.
func (f *Finalizer) Finalize(ctx context.Context, terminalID string, d *draft.Draft, createdBy uuid.UUID) (*CreateOrderResult, error) {
	if !d.PaymentComplete() {
		f.notifier.Notify(terminalID, Notification{
			Type:    "toast",
			Level:   "error",
			Message: "Conclua o pagamento antes de finalizar o pedido.",
		})
		return nil, ErrPaymentRequired
	}
	if !d.PaymentCovered() {
		log.Printf("WARN: finalize on terminal %s with payments below total", terminalID)
		f.notifier.Notify(terminalID, Notification{
			Type:    "toast",
			Level:   "warning",
			Message: "Pagamentos registrados não cobrem o total do pedido.",
		})
	}

	readiness := d.Readiness()
	if err := readiness.Err(); err != nil {
		f.notifier.Notify(terminalID, Notification{
			Type:    "toast",
			Level:   "error",
			Message: readinessMessage(readiness),
		})
		return nil, err
	}

	result, err := f.orders.CreateOrder(ctx, d.Snapshot(), createdBy)
	if err != nil {
		log.Printf("ERROR: failed to create order on terminal %s: %v", terminalID, err)
		f.notifier.Notify(terminalID, Notification{
			Type:    "toast",
			Level:   "error",
			Message: "Não foi possível finalizar o pedido. Tente novamente.",
		})
		return nil, fmt.Errorf("finalize order: %w", err)
	}

	f.notifier.Notify(terminalID, Notification{
		Type:        "order_created",
		Level:       "success",
		Message:     fmt.Sprintf("Pedido %s criado com sucesso.", result.Order.OrderNumber),
		OrderNumber: result.Order.OrderNumber,
	})
	d.Clear()
	return result, nil
}

func readinessMessage(r draft.Readiness) string {
	switch r.State {
	case draft.StateMissingLines:
		return "Adicione ao menos um item ao pedido."
	case draft.StateMissingCustomer:
		return "Selecione um cliente para pedidos de entrega."
	case draft.StateMissingName:
		return "Informe o nome do cliente."
	case draft.StateMissingPhone:
		return "Informe o telefone do cliente."
	case draft.StateMissingAddress:
		return "Informe o endereço de entrega."
	case draft.StateMissingCourier:
		return "Selecione um entregador para o pedido."
	default:
		return "Pedido incompleto."
	}
}
