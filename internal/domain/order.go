package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the order state machine:
// Processing -> Shipped -> Completed, Processing -> Cancelled.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the enumerated statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is a legal
// transition. Shipped, Completed and Cancelled are terminal except for
// Shipped -> Completed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusCompleted
	}
	return false
}

// DeliveryZone is a delivery pricing tier with a fixed fee.
type DeliveryZone string

const (
	ZoneFreetown    DeliveryZone = "freetown"
	ZoneWesternArea DeliveryZone = "western-area"
	ZoneProvinces   DeliveryZone = "provinces"
)

// Valid reports whether z is one of the enumerated zones.
func (z DeliveryZone) Valid() bool {
	switch z {
	case ZoneFreetown, ZoneWesternArea, ZoneProvinces:
		return true
	}
	return false
}

// Fee returns the fixed delivery fee for the zone.
func (z DeliveryZone) Fee() decimal.Decimal {
	switch z {
	case ZoneFreetown:
		return decimal.NewFromInt(25)
	case ZoneWesternArea:
		return decimal.NewFromInt(50)
	case ZoneProvinces:
		return decimal.NewFromInt(100)
	}
	return decimal.Zero
}

// PaymentMethod is the set of accepted payment methods.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentMobile PaymentMethod = "mobile"
	PaymentBank   PaymentMethod = "bank"
)

// Valid reports whether m is one of the enumerated payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentMobile, PaymentBank:
		return true
	}
	return false
}

// OrderItem is a line item with the product title and unit price
// snapshotted at order time, so later catalog edits never alter the order.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Title     string          `json:"title" db:"title"`
	UnitPrice decimal.Decimal `json:"price" db:"unit_price"`
	Qty       int             `json:"qty" db:"qty"`
}

// Order is a placed purchase. Ref is the customer-facing reference,
// distinct from the internal ID, and is globally unique.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Ref             string          `json:"ref" db:"ref"`
	Items           []OrderItem     `json:"items" db:"items"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee" db:"delivery_fee"`
	GrandTotal      decimal.Decimal `json:"grand_total" db:"grand_total"`
	CustomerName    string          `json:"customer_name" db:"customer_name"`
	CustomerEmail   string          `json:"customer_email" db:"customer_email"`
	CustomerPhone   string          `json:"customer_phone" db:"customer_phone"`
	CustomerAddress string          `json:"customer_address" db:"customer_address"`
	DeliveryZone    DeliveryZone    `json:"delivery_zone" db:"delivery_zone"`
	PaymentMethod   PaymentMethod   `json:"payment_method" db:"payment_method"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
