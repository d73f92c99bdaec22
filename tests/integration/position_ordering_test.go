package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/mfg/backend/internal/application/catalog"
	"github.com/mfg/backend/internal/domain/catalog"
	"github.com/mfg/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func newProductService(testDB *TestDB) *catalogapp.ProductService {
	repo := persistence.NewGormProductRepository(testDB.DB)
	scope := persistence.NewGormCatalogTransactionScope(testDB.DB)
	return catalogapp.NewProductService(
		repo, scope, nil, nil, catalogapp.DefaultProductServiceConfig(), nil,
	)
}

func createProducts(t *testing.T, service *catalogapp.ProductService, count int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()
	ids := make([]uuid.UUID, 0, count)
	for i := 1; i <= count; i++ {
		resp, err := service.Create(ctx, catalogapp.CreateProductRequest{
			Code: fmt.Sprintf("PROD-%03d", i),
			Name: fmt.Sprintf("Product %d", i),
			Unit: "pcs",
		})
		require.NoError(t, err)
		require.Equal(t, i, resp.Position)
		ids = append(ids, resp.ID)
	}
	return ids
}

// assertDensePositions verifies positions form exactly 1..n with no gaps
// or duplicates, in listing order.
func assertDensePositions(t *testing.T, service *catalogapp.ProductService) []catalogapp.ProductResponse {
	t.Helper()
	products, _, err := service.List(context.Background(), catalogapp.ProductListFilter{
		Page: 1, PageSize: 100,
	})
	require.NoError(t, err)
	for i, p := range products {
		assert.Equal(t, i+1, p.Position, "product %s holds position %d, want %d", p.Code, p.Position, i+1)
	}
	return products
}

func TestPositionOrdering_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	service := newProductService(testDB)
	ctx := context.Background()

	t.Run("create appends at the end", func(t *testing.T) {
		testDB.CleanTables()
		createProducts(t, service, 5)
		assertDensePositions(t, service)
	})

	t.Run("create at explicit position shifts followers", func(t *testing.T) {
		testDB.CleanTables()
		ids := createProducts(t, service, 4)

		position := 2
		resp, err := service.Create(ctx, catalogapp.CreateProductRequest{
			Code:     "PROD-INS",
			Name:     "Inserted",
			Unit:     "pcs",
			Position: &position,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Position)

		products := assertDensePositions(t, service)
		require.Len(t, products, 5)
		assert.Equal(t, "PROD-INS", products[1].Code)

		// Former occupant of slot 2 moved to slot 3
		moved, err := service.GetByID(ctx, ids[1])
		require.NoError(t, err)
		assert.Equal(t, 3, moved.Position)
	})

	t.Run("out of range position clamps to the end", func(t *testing.T) {
		testDB.CleanTables()
		createProducts(t, service, 3)

		position := 50
		resp, err := service.Create(ctx, catalogapp.CreateProductRequest{
			Code:     "PROD-CLAMP",
			Name:     "Clamped",
			Unit:     "pcs",
			Position: &position,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Position)
		assertDensePositions(t, service)
	})

	t.Run("move down shifts the passed-over range up", func(t *testing.T) {
		testDB.CleanTables()
		ids := createProducts(t, service, 5)

		position := 4
		resp, err := service.Update(ctx, ids[1], catalogapp.UpdateProductRequest{
			Position: &position,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Position)

		products := assertDensePositions(t, service)
		assert.Equal(t, "PROD-001", products[0].Code)
		assert.Equal(t, "PROD-003", products[1].Code)
		assert.Equal(t, "PROD-004", products[2].Code)
		assert.Equal(t, "PROD-002", products[3].Code)
		assert.Equal(t, "PROD-005", products[4].Code)
	})

	t.Run("move up shifts the passed-over range down", func(t *testing.T) {
		testDB.CleanTables()
		ids := createProducts(t, service, 5)

		position := 2
		resp, err := service.Update(ctx, ids[3], catalogapp.UpdateProductRequest{
			Position: &position,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Position)

		products := assertDensePositions(t, service)
		assert.Equal(t, "PROD-001", products[0].Code)
		assert.Equal(t, "PROD-004", products[1].Code)
		assert.Equal(t, "PROD-002", products[2].Code)
		assert.Equal(t, "PROD-003", products[3].Code)
		assert.Equal(t, "PROD-005", products[4].Code)
	})

	t.Run("move to current position is a no-op", func(t *testing.T) {
		testDB.CleanTables()
		ids := createProducts(t, service, 3)

		position := 2
		resp, err := service.Update(ctx, ids[1], catalogapp.UpdateProductRequest{
			Position: &position,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Position)
		assertDensePositions(t, service)
	})

	t.Run("delete compacts the gap", func(t *testing.T) {
		testDB.CleanTables()
		ids := createProducts(t, service, 5)

		require.NoError(t, service.Delete(ctx, ids[2]))

		products := assertDensePositions(t, service)
		require.Len(t, products, 4)
		assert.Equal(t, "PROD-004", products[2].Code)
	})

	t.Run("delete then insert reuses the slot", func(t *testing.T) {
		testDB.CleanTables()
		ids := createProducts(t, service, 4)

		require.NoError(t, service.Delete(ctx, ids[0]))

		position := 1
		resp, err := service.Create(ctx, catalogapp.CreateProductRequest{
			Code:     "PROD-NEW",
			Name:     "Replacement",
			Unit:     "pcs",
			Position: &position,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Position)
		assertDensePositions(t, service)
	})

	t.Run("normalize repairs drifted positions", func(t *testing.T) {
		testDB.CleanTables()
		createProducts(t, service, 3)

		// Force a gap behind the service's back
		err := testDB.DB.Model(&catalog.Product{}).
			Where("position = ?", 3).
			Update("position", 9).Error
		require.NoError(t, err)

		result, err := service.NormalizePositions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Checked)
		assert.Equal(t, 1, result.Corrected)
		assertDensePositions(t, service)
	})

	t.Run("case-insensitive name lookup", func(t *testing.T) {
		testDB.CleanTables()
		createProducts(t, service, 2)

		found, err := service.GetByName(ctx, "PRODUCT 1")
		require.NoError(t, err)
		assert.Equal(t, "PROD-001", found.Code)
	})
}
