package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          uuid.UUID
	CategoryID  pgtype.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Customization is a catalog-level add-on offered for a product.
type Customization struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Name      string
	Price     pgtype.Numeric
	IsActive  bool
	CreatedAt time.Time
}

type Coupon struct {
	ID        uuid.UUID
	Code      string
	Kind      string // PERCENTAGE or FIXED_AMOUNT
	Value     pgtype.Numeric
	IsActive  bool
	ExpiresAt pgtype.Timestamptz
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	Email     pgtype.Text
	Notes     pgtype.Text
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CustomerAddress struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Street     string
	Number     string
	District   pgtype.Text
	City       string
	Complement pgtype.Text
	CreatedAt  time.Time
}

type Courier struct {
	ID        uuid.UUID
	Name      string
	Phone     pgtype.Text
	Status    string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	OrderType     string
	Status        string
	CustomerID    pgtype.UUID
	CustomerName  pgtype.Text
	CustomerPhone pgtype.Text
	CourierID     pgtype.UUID
	Subtotal      pgtype.Numeric
	DiscountTotal pgtype.Numeric
	ServiceTotal  pgtype.Numeric
	DeliveryFee   pgtype.Numeric
	TotalAmount   pgtype.Numeric
	Observations  pgtype.Text
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	UnitPrice pgtype.Numeric
	Quantity  int32
	LineTotal pgtype.Numeric
}

type OrderLineCustomization struct {
	ID          uuid.UUID
	OrderLineID uuid.UUID
	Name        string
	UnitPrice   pgtype.Numeric
	Quantity    int32
}

type OrderPayment struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	Method  string
	Amount  pgtype.Numeric
}
