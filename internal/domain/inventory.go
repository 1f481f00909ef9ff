package domain

// InventoryRecord is the stock count for one variant at one warehouse.
// quantity never goes below zero; the repository enforces this with a
// conditional update and the schema backs it with a CHECK constraint.
type InventoryRecord struct {
	ID               int64 `json:"id"`
	ProductVariantID int64 `json:"product_variant_id"`
	WarehouseID      int64 `json:"warehouse_id"`
	Quantity         int   `json:"quantity"`
	ReorderLevel     int   `json:"reorder_level"`
}

// LowStock reports whether the record is at or below its reorder level.
func (r InventoryRecord) LowStock() bool {
	return r.Quantity <= r.ReorderLevel
}

// LowStockAlert is the payload sent to the monitoring sink when a
// decrement or adjustment leaves a record at or below its reorder level.
type LowStockAlert struct {
	ProductVariantID int64 `json:"product_variant_id"`
	WarehouseID      int64 `json:"warehouse_id"`
	Quantity         int   `json:"quantity"`
	ReorderLevel     int   `json:"reorder_level"`
}

// StockReportRow is one line of the inventory report, joined with the
// catalog for display.
type StockReportRow struct {
	ProductVariantID int64   `json:"product_variant_id"`
	WarehouseID      int64   `json:"warehouse_id"`
	SKU              string  `json:"sku"`
	ProductName      string  `json:"product_name"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	ReorderLevel     int     `json:"reorder_level"`
}
