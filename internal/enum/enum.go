package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusOpen      = "OPEN"
	OrderStatusPreparing = "PREPARING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	CourierStatusAvailable = "AVAILABLE"
	CourierStatusBusy      = "BUSY"
	CourierStatusOffline   = "OFFLINE"
)

// ── Borderline (CHECK constrained in DB) ──

const (
	UserRoleAdmin   = "ADMIN"
	UserRoleManager = "MANAGER"
	UserRoleCashier = "CASHIER"
)

const (
	OrderTypeDelivery = "DELIVERY"
	OrderTypePickup   = "PICKUP"
	OrderTypeDineIn   = "DINE_IN"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodCard     = "CARD"
	PaymentMethodPix      = "PIX"
	PaymentMethodVoucher  = "VOUCHER"
	PaymentMethodTransfer = "TRANSFER"
)

const (
	AdjustmentPercentage = "PERCENTAGE"
	AdjustmentFixed      = "FIXED_AMOUNT"
)

// ValidOrderType reports whether s is one of the known order types.
func ValidOrderType(s string) bool {
	switch s {
	case OrderTypeDelivery, OrderTypePickup, OrderTypeDineIn:
		return true
	}
	return false
}

// ValidAdjustmentKind reports whether s is a known adjustment kind.
func ValidAdjustmentKind(s string) bool {
	switch s {
	case AdjustmentPercentage, AdjustmentFixed:
		return true
	}
	return false
}

// ValidCourierStatus reports whether s is a known courier status.
func ValidCourierStatus(s string) bool {
	switch s {
	case CourierStatusAvailable, CourierStatusBusy, CourierStatusOffline:
		return true
	}
	return false
}
