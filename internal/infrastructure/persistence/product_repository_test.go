package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/catalog"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockProductRepository creates a GormProductRepository with a mocked SQL connection
func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormProductRepository(gormDB), mock, mockDB
}

func productRows(id uuid.UUID, code, name string, position int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "unit", "position", "status"}).
		AddRow(id, code, name, "pcs", position, "active")
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnRows(productRows(productID, "SKU001", "Widget", 3))

		product, err := repo.FindByID(context.Background(), productID)

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, productID, product.ID)
		assert.Equal(t, 3, product.Position)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), productID)

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByCode(t *testing.T) {
	t.Run("finds product by uppercased code", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("SKU001", 1).
			WillReturnRows(productRows(productID, "SKU001", "Widget", 1))

		product, err := repo.FindByCode(context.Background(), "sku001")

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, "SKU001", product.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindByNameFold(t *testing.T) {
	t.Run("matches name case-insensitively", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE LOWER\(name\) = LOWER\(\$1\) ORDER BY .* LIMIT .*`).
			WithArgs("widget", 1).
			WillReturnRows(productRows(productID, "SKU001", "Widget", 1))

		product, err := repo.FindByNameFold(context.Background(), "widget")

		assert.NoError(t, err)
		assert.NotNil(t, product)
		assert.Equal(t, "Widget", product.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no name matches", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE LOWER\(name\) = LOWER\(\$1\) ORDER BY .* LIMIT .*`).
			WithArgs("ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByNameFold(context.Background(), "ghost")

		assert.Error(t, err)
		assert.Nil(t, product)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ListByPosition(t *testing.T) {
	t.Run("orders by position then recency", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "unit", "position", "status"}).
			AddRow(uuid.New(), "SKU001", "First", "pcs", 1, "active").
			AddRow(uuid.New(), "SKU002", "Second", "pcs", 2, "active")

		mock.ExpectQuery(`SELECT \* FROM "products" ORDER BY position ASC, updated_at DESC`).
			WillReturnRows(rows)

		products, err := repo.ListByPosition(context.Background())

		assert.NoError(t, err)
		assert.Len(t, products, 2)
		assert.Equal(t, 1, products[0].Position)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ShiftPositions(t *testing.T) {
	t.Run("shifts open-ended range", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "products" SET .* WHERE position >= \$3`).
			WillReturnResult(sqlmock.NewResult(0, 4))

		err := repo.ShiftPositions(context.Background(), catalog.PositionShift{Lo: 3, Hi: 0, Delta: 1}, nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("shifts bounded range excluding mover", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		moverID := uuid.New()

		mock.ExpectExec(`UPDATE "products" SET .* WHERE position >= \$3 AND position <= \$4 AND id <> \$5`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.ShiftPositions(context.Background(), catalog.PositionShift{Lo: 3, Hi: 7, Delta: -1}, &moverID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no-op for zero delta", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.ShiftPositions(context.Background(), catalog.PositionShift{Lo: 1, Hi: 0, Delta: 0}, nil)

		assert.NoError(t, err)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), productID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), productID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_CountLive(t *testing.T) {
	t.Run("counts all rows", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountLive(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ExistsByCode(t *testing.T) {
	t.Run("returns true when code exists", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE code = \$1`).
			WithArgs("SKU001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByCode(context.Background(), "sku001")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when code is free", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE code = \$1`).
			WithArgs("NOPE").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByCode(context.Background(), "nope")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_SaveBatch(t *testing.T) {
	t.Run("returns nil for empty batch", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		err := repo.SaveBatch(context.Background(), []*catalog.Product{})

		assert.NoError(t, err)
	})
}

func TestGormProductRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements ProductRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		var _ catalog.ProductRepository = repo
	})
}
