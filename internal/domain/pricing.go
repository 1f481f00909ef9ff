package domain

import "time"

type Discount struct {
	ID              int64      `json:"id"`
	Type            string     `json:"type"` // percentage | fixed | tiered
	Value           float64    `json:"value"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Active          bool       `json:"active"`
	CustomerSegment string     `json:"customer_segment,omitempty"`
}

type Coupon struct {
	Code       string `json:"code"`
	DiscountID int64  `json:"discount_id"`
	UsageLimit int    `json:"usage_limit"`
}

type PriceRule struct {
	ID               int64      `json:"id"`
	ProductVariantID int64      `json:"product_variant_id"`
	CustomerSegment  string     `json:"customer_segment,omitempty"`
	Region           string     `json:"region,omitempty"`
	Price            float64    `json:"price"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	Active           bool       `json:"active"`
}

type TaxRule struct {
	ID            int64   `json:"id"`
	Region        string  `json:"region"`
	TaxPercentage float64 `json:"tax_percentage"`
	Active        bool    `json:"active"`
}
