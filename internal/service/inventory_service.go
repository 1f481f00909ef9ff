package service

import (
	"context"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

// InventoryStore is the persistence surface for stock adjustments.
type InventoryStore interface {
	AdjustStock(ctx context.Context, variantID, warehouseID int64, delta int, reorderLevel *int) (domain.InventoryRecord, error)
	GetStock(ctx context.Context, variantID, warehouseID int64) (domain.InventoryRecord, error)
	StockReport(ctx context.Context) ([]domain.StockReportRow, error)
}

type InventoryService struct {
	repo     InventoryStore
	notifier LowStockNotifier
}

func NewInventoryService(repo InventoryStore, notifier LowStockNotifier) *InventoryService {
	return &InventoryService{
		repo:     repo,
		notifier: notifier,
	}
}

// Adjust upserts the (variant, warehouse) record by delta, optionally
// updating the reorder level. A delta that would drive the quantity
// negative rejects the whole call with no partial write. The same
// low-stock signal as checkout fires when the result sits at or below
// the reorder level.
func (s *InventoryService) Adjust(ctx context.Context, variantID, warehouseID int64, delta int, reorderLevel *int) (domain.InventoryRecord, error) {
	rec, err := s.repo.AdjustStock(ctx, variantID, warehouseID, delta, reorderLevel)
	if err != nil {
		return rec, err
	}

	if rec.LowStock() {
		go s.notifier.NotifyLowStock(context.Background(), domain.LowStockAlert{
			ProductVariantID: rec.ProductVariantID,
			WarehouseID:      rec.WarehouseID,
			Quantity:         rec.Quantity,
			ReorderLevel:     rec.ReorderLevel,
		})
	}

	return rec, nil
}

// Get returns one inventory record.
func (s *InventoryService) Get(ctx context.Context, variantID, warehouseID int64) (domain.InventoryRecord, error) {
	return s.repo.GetStock(ctx, variantID, warehouseID)
}

// Report lists every inventory record joined with the catalog.
func (s *InventoryService) Report(ctx context.Context) ([]domain.StockReportRow, error) {
	return s.repo.StockReport(ctx)
}
