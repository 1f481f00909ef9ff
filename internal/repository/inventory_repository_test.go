package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStock_CreatesAndIncrements(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	variantID, warehouseID := seedCatalog(t, repo)

	rec, err := repo.AdjustStock(ctx, variantID, warehouseID, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.Quantity)
	assert.Equal(t, 5, rec.ReorderLevel) // default

	rec, err = repo.AdjustStock(ctx, variantID, warehouseID, -4, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, rec.Quantity)
}

func TestAdjustStock_SetsReorderLevel(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	variantID, warehouseID := seedCatalog(t, repo)

	level := 8
	rec, err := repo.AdjustStock(ctx, variantID, warehouseID, 20, &level)
	require.NoError(t, err)
	assert.Equal(t, 8, rec.ReorderLevel)

	// Omitting the level keeps the stored one.
	rec, err = repo.AdjustStock(ctx, variantID, warehouseID, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, rec.ReorderLevel)
}

func TestAdjustStock_RejectsNegativeResult(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	variantID, warehouseID := seedCatalog(t, repo)

	_, err := repo.AdjustStock(ctx, variantID, warehouseID, 5, nil)
	require.NoError(t, err)

	_, err = repo.AdjustStock(ctx, variantID, warehouseID, -6, nil)
	assert.ErrorIs(t, err, ErrStockConstraintViolation)

	// The failed adjustment must not have written anything.
	rec, err := repo.GetStock(ctx, variantID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Quantity)
}

func TestAdjustStock_RejectsNegativeCreation(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	variantID, warehouseID := seedCatalog(t, repo)

	_, err := repo.AdjustStock(ctx, variantID, warehouseID, -3, nil)
	assert.ErrorIs(t, err, ErrStockConstraintViolation)

	_, err = repo.GetStock(ctx, variantID, warehouseID)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestAdjustStock_ConcurrentAdjustmentsNeverGoNegative(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	variantID, warehouseID := seedCatalog(t, repo)

	_, err := repo.AdjustStock(ctx, variantID, warehouseID, 10, nil)
	require.NoError(t, err)

	// 20 workers each try to take 1 from a stock of 10. Exactly 10 may
	// succeed.
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AdjustStock(ctx, variantID, warehouseID, -1, nil); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)

	rec, err := repo.GetStock(ctx, variantID, warehouseID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Quantity)
}

func TestStockReport_JoinsCatalog(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	variantID, warehouseID := seedCatalog(t, repo)

	_, err := repo.AdjustStock(ctx, variantID, warehouseID, 12, nil)
	require.NoError(t, err)

	report, err := repo.StockReport(ctx)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "TSHIRT-M-RED", report[0].SKU)
	assert.Equal(t, "T-Shirt", report[0].ProductName)
	assert.Equal(t, 12, report[0].Quantity)
}
