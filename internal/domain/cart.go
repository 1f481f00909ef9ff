package domain

import "time"

type Cart struct {
	ID             int64      `json:"id"`
	UserID         *int64     `json:"user_id,omitempty"`
	GuestEmail     *string    `json:"guest_email,omitempty"`
	IsAbandoned    bool       `json:"is_abandoned"`
	Items          []CartItem `json:"items"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CartItem struct {
	ID               int64 `json:"id"`
	ProductVariantID int64 `json:"product_variant_id"`
	Quantity         int   `json:"quantity"`
}

// CartView is the read-side projection of a cart: each line is joined
// through variant -> product so the client can render it without extra
// catalog lookups.
type CartView struct {
	ID          int64          `json:"id"`
	UserID      *int64         `json:"user_id,omitempty"`
	GuestEmail  *string        `json:"guest_email,omitempty"`
	IsAbandoned bool           `json:"is_abandoned"`
	Items       []CartItemView `json:"items"`
}

type CartItemView struct {
	ProductVariantID int64   `json:"product_variant_id"`
	Quantity         int     `json:"quantity"`
	SKU              string  `json:"sku"`
	Price            float64 `json:"price"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	ImageURL         string  `json:"image_url"`
}
