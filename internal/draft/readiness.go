package draft

import (
	"errors"

	"github.com/braseiro-pdv/api/internal/enum"
)

// Validation failures. All are user-recoverable: the draft is preserved
// unchanged and the operator fixes the missing piece.
var (
	ErrNoLines         = errors.New("order has no items")
	ErrMissingCustomer = errors.New("customer is required for delivery orders")
	ErrMissingName     = errors.New("customer name is required")
	ErrMissingPhone    = errors.New("customer phone is required")
	// ErrMissingAddress is part of the validation taxonomy but is not
	// produced today: address sufficiency is deferred to the customer-entry
	// UI. See Readiness.
	ErrMissingAddress = errors.New("delivery address is required")
	ErrMissingCourier = errors.New("delivery courier is required")
)

// Readiness states, ordered by check priority.
const (
	StateReady           = "READY"
	StateMissingLines    = "MISSING_LINES"
	StateMissingCustomer = "MISSING_CUSTOMER"
	StateMissingName     = "MISSING_NAME"
	StateMissingPhone    = "MISSING_PHONE"
	StateMissingAddress  = "MISSING_ADDRESS"
	StateMissingCourier  = "MISSING_COURIER"
)

// Readiness is the single authoritative answer to "may this draft be
// finalized". Both the UI enablement logic and the finalize flow consume it,
// so the two can never disagree. Checks short-circuit: only the first failure
// is reported.
type Readiness struct {
	State string
}

// Ready reports whether the draft satisfies every submission precondition.
func (r Readiness) Ready() bool {
	return r.State == StateReady
}

// Err maps the readiness state to its validation error; nil when ready.
func (r Readiness) Err() error {
	switch r.State {
	case StateReady:
		return nil
	case StateMissingLines:
		return ErrNoLines
	case StateMissingCustomer:
		return ErrMissingCustomer
	case StateMissingName:
		return ErrMissingName
	case StateMissingPhone:
		return ErrMissingPhone
	case StateMissingAddress:
		return ErrMissingAddress
	case StateMissingCourier:
		return ErrMissingCourier
	}
	return nil
}

// Readiness evaluates the draft against the required-fields table for its
// order type:
//
//	DELIVERY        name, phone, address, courier
//	PICKUP, DINE_IN name, phone
//
// Address sufficiency: a persisted customer with at least one address
// satisfies it. With no persisted customer attached, address entry is
// deferred to the customer-entry UI and treated as satisfied here. That gap
// is deliberate and documented; see the package tests.
func (d *Draft) Readiness() Readiness {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.lines) == 0 {
		return Readiness{State: StateMissingLines}
	}
	if d.orderType == enum.OrderTypeDelivery && d.customer == nil {
		return Readiness{State: StateMissingCustomer}
	}
	return d.customerDataLocked()
}

// ValidateCustomerData runs only the customer-field checks, independent of
// cart contents. Returns nil on success or the first failure's error.
func (d *Draft) ValidateCustomerData() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.customerDataLocked().Err()
}

func (d *Draft) customerDataLocked() Readiness {
	if d.resolvedName() == "" {
		return Readiness{State: StateMissingName}
	}
	if d.resolvedPhone() == "" {
		return Readiness{State: StateMissingPhone}
	}
	if d.orderType == enum.OrderTypeDelivery {
		// Address sufficiency is not enforced here: a persisted customer
		// is expected to carry one, and manual entry is collected by the
		// customer-entry UI before dispatch. A delivery order can therefore
		// be finalized without a confirmed address. Known gap, kept pending
		// product clarification; asserted as such in the package tests.
		if d.courier == nil {
			return Readiness{State: StateMissingCourier}
		}
	}
	return Readiness{State: StateReady}
}

// CanCreateOrder is the coarse UI gate: the draft has lines and, for
// delivery, a customer attached. Kept for callers that only need the cheap
// check; it is derived from Readiness so it cannot diverge from the finalize
// path.
func (d *Draft) CanCreateOrder() bool {
	r := d.Readiness()
	switch r.State {
	case StateMissingLines, StateMissingCustomer:
		return false
	}
	return true
}

// PaymentCovered recomputes whether the recorded payment entries cover the
// current total. The finalize flow compares this against the externally
// toggled paymentComplete flag and surfaces a divergence warning instead of
// trusting the flag blindly.
func (d *Draft) PaymentCovered() bool {
	t := d.Totals()
	return t.Paid.GreaterThanOrEqual(t.Total)
}
