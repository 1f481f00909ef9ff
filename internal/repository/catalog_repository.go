package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

func (r *Repository) CreateProduct(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, image_url, product_type, category_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, is_active, created_at`,
		p.Name, p.Description, p.ImageURL, p.ProductType, p.CategoryID).
		Scan(&p.ID, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// ListProducts returns all products with their variants attached. Two
// queries instead of a lazy per-product fetch keeps the cost explicit.
func (r *Repository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(image_url, ''),
		        product_type, category_id, is_active, created_at
		 FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	byID := make(map[int64]*domain.Product)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL,
			&p.ProductType, &p.CategoryID, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, &p)
		byID[p.ID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	vrows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, sku, price, COALESCE(size, ''), COALESCE(color, ''),
		        weight_kg, is_active
		 FROM product_variants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer vrows.Close()

	for vrows.Next() {
		var v domain.ProductVariant
		if err := vrows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Price, &v.Size,
			&v.Color, &v.WeightKg, &v.IsActive); err != nil {
			return nil, fmt.Errorf("scan variant row: %w", err)
		}
		if p, ok := byID[v.ProductID]; ok {
			p.Variants = append(p.Variants, v)
		}
	}
	if err := vrows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) CreateVariant(ctx context.Context, v *domain.ProductVariant) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO product_variants (product_id, sku, price, size, color, weight_kg)
		 VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6)
		 RETURNING id, is_active`,
		v.ProductID, v.SKU, v.Price, v.Size, v.Color, v.WeightKg).
		Scan(&v.ID, &v.IsActive)
	if err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

func (r *Repository) GetVariant(ctx context.Context, variantID int64) (*domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, sku, price, COALESCE(size, ''), COALESCE(color, ''),
		        weight_kg, is_active
		 FROM product_variants WHERE id = $1`,
		variantID).Scan(&v.ID, &v.ProductID, &v.SKU, &v.Price, &v.Size, &v.Color,
		&v.WeightKg, &v.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}
	return &v, nil
}

func (r *Repository) CreateCategory(ctx context.Context, c *domain.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id`,
		c.Name, c.ParentID).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, parent_id FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ParentID); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (r *Repository) CreateWarehouse(ctx context.Context, w *domain.Warehouse) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO warehouses (name, location) VALUES ($1, $2) RETURNING id`,
		w.Name, w.Location).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

func (r *Repository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(location, '') FROM warehouses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query warehouses: %w", err)
	}
	defer rows.Close()

	var warehouses []domain.Warehouse
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location); err != nil {
			return nil, fmt.Errorf("scan warehouse row: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return warehouses, nil
}
