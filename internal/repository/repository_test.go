package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iamcal77/e-shop-backened/internal/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

// seedCatalog inserts one product, one variant and one warehouse and
// returns their ids.
func seedCatalog(t *testing.T, repo *Repository) (variantID, warehouseID int64) {
	t.Helper()
	ctx := context.Background()

	product := &domain.Product{Name: "T-Shirt", ProductType: "physical"}
	require.NoError(t, repo.CreateProduct(ctx, product))

	variant := &domain.ProductVariant{ProductID: product.ID, SKU: "TSHIRT-M-RED", Price: 99.90}
	require.NoError(t, repo.CreateVariant(ctx, variant))

	warehouse := &domain.Warehouse{Name: "Nairobi Main", Location: "Nairobi"}
	require.NoError(t, repo.CreateWarehouse(ctx, warehouse))

	return variant.ID, warehouse.ID
}
