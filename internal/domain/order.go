package domain

import "time"

type OrderSource string

const (
	OrderSourceOnline OrderSource = "ONLINE"
	OrderSourcePOS    OrderSource = "POS"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "CREATED"
	OrderStatusPaid    OrderStatus = "PAID"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type Order struct {
	ID           int64         `json:"id"`
	UserID       *int64        `json:"user_id,omitempty"`
	GuestEmail   *string       `json:"guest_email,omitempty"`
	Source       OrderSource   `json:"source"`
	Status       OrderStatus   `json:"status"`
	Total        float64       `json:"total"`
	ShippingCost float64       `json:"shipping_cost"`
	Currency     string        `json:"currency"`
	Items        []OrderItem   `json:"items"`
	Address      *OrderAddress `json:"address,omitempty"`
	Payment      *Payment      `json:"payment,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// OrderItem freezes the unit price at purchase time. Later catalog price
// changes never alter a stored order.
type OrderItem struct {
	ID               int64   `json:"id"`
	ProductVariantID int64   `json:"product_variant_id"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
}

// OrderAddress is a snapshot of the shipping destination, decoupled from
// the customer's live address book.
type OrderAddress struct {
	Line1   string `json:"line1"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Payment struct {
	ID        int64         `json:"id"`
	OrderID   int64         `json:"order_id"`
	Provider  string        `json:"provider"`
	Reference string        `json:"reference"`
	Status    PaymentStatus `json:"status"`
	Amount    float64       `json:"amount"`
	CreatedAt time.Time     `json:"created_at"`
}
