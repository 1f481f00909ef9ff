package repository

import (
	"context"
	"fmt"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

func (r *Repository) CreateDiscount(ctx context.Context, d *domain.Discount) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO discounts (type, value, start_date, end_date, active, customer_segment)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')) RETURNING id`,
		d.Type, d.Value, d.StartDate, d.EndDate, d.Active, d.CustomerSegment).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert discount: %w", err)
	}
	return nil
}

func (r *Repository) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, value, start_date, end_date, active, COALESCE(customer_segment, '')
		 FROM discounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query discounts: %w", err)
	}
	defer rows.Close()

	var discounts []domain.Discount
	for rows.Next() {
		var d domain.Discount
		if err := rows.Scan(&d.ID, &d.Type, &d.Value, &d.StartDate, &d.EndDate,
			&d.Active, &d.CustomerSegment); err != nil {
			return nil, fmt.Errorf("scan discount row: %w", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return discounts, nil
}

func (r *Repository) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO coupons (code, discount_id, usage_limit) VALUES ($1, $2, $3)`,
		c.Code, c.DiscountID, c.UsageLimit)
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func (r *Repository) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT code, discount_id, usage_limit FROM coupons ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.Code, &c.DiscountID, &c.UsageLimit); err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return coupons, nil
}

func (r *Repository) CreatePriceRule(ctx context.Context, p *domain.PriceRule) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO price_rules (product_variant_id, customer_segment, region, price, start_time, end_time, active)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7) RETURNING id`,
		p.ProductVariantID, p.CustomerSegment, p.Region, p.Price,
		p.StartTime, p.EndTime, p.Active).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert price rule: %w", err)
	}
	return nil
}

func (r *Repository) ListPriceRules(ctx context.Context) ([]domain.PriceRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_variant_id, COALESCE(customer_segment, ''), COALESCE(region, ''),
		        price, start_time, end_time, active
		 FROM price_rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query price rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.PriceRule
	for rows.Next() {
		var p domain.PriceRule
		if err := rows.Scan(&p.ID, &p.ProductVariantID, &p.CustomerSegment, &p.Region,
			&p.Price, &p.StartTime, &p.EndTime, &p.Active); err != nil {
			return nil, fmt.Errorf("scan price rule row: %w", err)
		}
		rules = append(rules, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return rules, nil
}

func (r *Repository) CreateTaxRule(ctx context.Context, t *domain.TaxRule) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tax_rules (region, tax_percentage, active) VALUES ($1, $2, $3) RETURNING id`,
		t.Region, t.TaxPercentage, t.Active).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert tax rule: %w", err)
	}
	return nil
}

func (r *Repository) ListTaxRules(ctx context.Context) ([]domain.TaxRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, region, tax_percentage, active FROM tax_rules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tax rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.TaxRule
	for rows.Next() {
		var t domain.TaxRule
		if err := rows.Scan(&t.ID, &t.Region, &t.TaxPercentage, &t.Active); err != nil {
			return nil, fmt.Errorf("scan tax rule row: %w", err)
		}
		rules = append(rules, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return rules, nil
}
