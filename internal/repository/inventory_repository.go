package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// AdjustStock upserts the (variant, warehouse) record in one atomic
// statement: a missing record is created with quantity = delta, an
// existing one has delta added. The WHERE clause on the conflict branch
// rejects any update that would leave the count negative, so either the
// full adjustment lands or nothing does.
func (r *Repository) AdjustStock(ctx context.Context, variantID, warehouseID int64, delta int, reorderLevel *int) (domain.InventoryRecord, error) {
	rec := domain.InventoryRecord{
		ProductVariantID: variantID,
		WarehouseID:      warehouseID,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO inventory (product_variant_id, warehouse_id, quantity, reorder_level)
		 VALUES ($1, $2, $3, COALESCE($4, 5))
		 ON CONFLICT (product_variant_id, warehouse_id) DO UPDATE
		 SET quantity = inventory.quantity + EXCLUDED.quantity,
		     reorder_level = COALESCE($4, inventory.reorder_level)
		 WHERE inventory.quantity + EXCLUDED.quantity >= 0
		 RETURNING id, quantity, reorder_level`,
		variantID, warehouseID, delta, reorderLevel).
		Scan(&rec.ID, &rec.Quantity, &rec.ReorderLevel)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict branch rejected: the delta would go below zero.
		return rec, ErrStockConstraintViolation
	}
	if err != nil {
		// Creation with a negative delta trips the schema CHECK instead.
		if isCheckViolation(err) {
			return rec, ErrStockConstraintViolation
		}
		return rec, fmt.Errorf("adjust stock: %w", err)
	}
	return rec, nil
}

// GetStock returns the record for one (variant, warehouse) pair.
func (r *Repository) GetStock(ctx context.Context, variantID, warehouseID int64) (domain.InventoryRecord, error) {
	rec := domain.InventoryRecord{
		ProductVariantID: variantID,
		WarehouseID:      warehouseID,
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, quantity, reorder_level FROM inventory
		 WHERE product_variant_id = $1 AND warehouse_id = $2`,
		variantID, warehouseID).Scan(&rec.ID, &rec.Quantity, &rec.ReorderLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrVariantNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("query stock: %w", err)
	}
	return rec, nil
}

// StockReport joins inventory with the catalog for the admin stock view.
func (r *Repository) StockReport(ctx context.Context) ([]domain.StockReportRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.product_variant_id, i.warehouse_id,
		        COALESCE(v.sku, ''), COALESCE(p.name, ''), COALESCE(v.price, 0),
		        i.quantity, i.reorder_level
		 FROM inventory i
		 LEFT JOIN product_variants v ON v.id = i.product_variant_id
		 LEFT JOIN products p ON p.id = v.product_id
		 ORDER BY i.id`)
	if err != nil {
		return nil, fmt.Errorf("query stock report: %w", err)
	}
	defer rows.Close()

	var report []domain.StockReportRow
	for rows.Next() {
		var row domain.StockReportRow
		if err := rows.Scan(&row.ProductVariantID, &row.WarehouseID,
			&row.SKU, &row.ProductName, &row.Price,
			&row.Quantity, &row.ReorderLevel); err != nil {
			return nil, fmt.Errorf("scan stock report row: %w", err)
		}
		report = append(report, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return report, nil
}
