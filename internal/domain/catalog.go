package domain

import "time"

type Product struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	ImageURL    string           `json:"image_url"`
	ProductType string           `json:"product_type"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	IsActive    bool             `json:"is_active"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type ProductVariant struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	WeightKg  float64 `json:"weight_kg"`
	IsActive  bool    `json:"is_active"`
}

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

type Warehouse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
