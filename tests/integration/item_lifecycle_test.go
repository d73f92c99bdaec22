package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	mfgapp "github.com/mfg/backend/internal/application/manufacturing"
	workforceapp "github.com/mfg/backend/internal/application/workforce"
	"github.com/mfg/backend/internal/domain/catalog"
	"github.com/mfg/backend/internal/infrastructure/label"
	"github.com/mfg/backend/internal/infrastructure/persistence"
	"github.com/mfg/backend/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manufacturingFixture struct {
	items     *mfgapp.ItemService
	transfers *mfgapp.TransferService
	taskForms *mfgapp.TaskFormService
	employees *workforceapp.EmployeeService
	storage   *storage.MemoryObjectStorage
}

func newManufacturingFixture(testDB *TestDB) *manufacturingFixture {
	itemRepo := persistence.NewGormItemRepository(testDB.DB)
	transferRepo := persistence.NewGormTransferRepository(testDB.DB)
	taskFormRepo := persistence.NewGormTaskFormRepository(testDB.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(testDB.DB)
	scope := persistence.NewGormManufacturingTransactionScope(testDB.DB)

	memStorage := storage.NewMemoryObjectStorage()
	renderer := label.NewQRRenderer(label.WithSize(128))
	directory := workforceapp.NewDirectory(employeeRepo)

	return &manufacturingFixture{
		items: mfgapp.NewItemService(
			itemRepo, scope, directory, memStorage, renderer,
			mfgapp.DefaultItemServiceConfig(), nil,
		),
		transfers: mfgapp.NewTransferService(transferRepo, scope, directory, nil),
		taskForms: mfgapp.NewTaskFormService(taskFormRepo, itemRepo, directory),
		employees: workforceapp.NewEmployeeService(employeeRepo),
		storage:   memStorage,
	}
}

func (f *manufacturingFixture) createEmployee(t *testing.T, name, code string) uuid.UUID {
	t.Helper()
	resp, err := f.employees.Create(context.Background(), workforceapp.CreateEmployeeRequest{
		Name: name,
		Code: code,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *manufacturingFixture) createItem(t *testing.T, itemNo string, boxCount int, helperID, operatorID uuid.UUID) *mfgapp.ItemResponse {
	t.Helper()
	resp, err := f.items.Create(context.Background(), mfgapp.CreateItemRequest{
		ItemNo:     itemNo,
		Length:     decimal.NewFromInt(1200),
		StickCount: 48,
		Shift:      "day",
		Company:    "Acme",
		Machine:    "M-01",
		BoxCount:   boxCount,
		HelperID:   helperID,
		OperatorID: operatorID,
		Photo:      mfgapp.PhotoUpload{Filename: itemNo + ".jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
	})
	require.NoError(t, err)
	return resp
}

func TestItemLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	t.Run("create generates sequential boxes with labels", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")

		item := f.createItem(t, "ITEM-100", 3, helperID, operatorID)

		require.Len(t, item.Boxes, 3)
		assert.Equal(t, "001", item.Boxes[0].SerialNumber)
		assert.Equal(t, "002", item.Boxes[1].SerialNumber)
		assert.Equal(t, "003", item.Boxes[2].SerialNumber)
		for _, box := range item.Boxes {
			assert.NotEmpty(t, box.LabelURL)
			assert.Equal(t, "In Stock", box.Status)
		}
		assert.NotEmpty(t, item.PhotoURL)
		assert.Equal(t, 4, f.storage.Len(), "three labels plus the item photo")

		require.Len(t, item.Helpers, 1)
		assert.Equal(t, "Alice Chen", item.Helpers[0].Name)
		require.Len(t, item.Operators, 1)
		assert.Equal(t, "Bob Liu", item.Operators[0].Name)
	})

	t.Run("duplicate item number is rejected", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")

		f.createItem(t, "ITEM-100", 2, helperID, operatorID)

		_, err := f.items.Create(ctx, mfgapp.CreateItemRequest{
			ItemNo:     "ITEM-100",
			BoxCount:   2,
			HelperID:   helperID,
			OperatorID: operatorID,
			Photo:      mfgapp.PhotoUpload{Filename: "dup.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
		})
		assert.Error(t, err)
	})

	t.Run("resize rebuilds the box set from scratch", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")

		item := f.createItem(t, "ITEM-200", 5, helperID, operatorID)
		originalBoxIDs := make(map[uuid.UUID]bool, len(item.Boxes))
		for _, box := range item.Boxes {
			originalBoxIDs[box.ID] = true
		}

		boxCount := 2
		updated, err := f.items.Update(ctx, item.ID, mfgapp.UpdateItemRequest{
			BoxCount: &boxCount,
		})
		require.NoError(t, err)

		require.Len(t, updated.Boxes, 2)
		assert.Equal(t, "001", updated.Boxes[0].SerialNumber)
		assert.Equal(t, "002", updated.Boxes[1].SerialNumber)
		for _, box := range updated.Boxes {
			assert.False(t, originalBoxIDs[box.ID], "resize must not keep old box rows")
		}
		// five old labels replaced by two new ones, photo untouched
		assert.Equal(t, 3, f.storage.Len())
	})

	t.Run("append preserves existing boxes and continues serials", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")

		item := f.createItem(t, "ITEM-300", 2, helperID, operatorID)
		firstBoxID := item.Boxes[0].ID

		updated, err := f.items.AddBoxes(ctx, item.ID, mfgapp.AddBoxesRequest{Count: 3})
		require.NoError(t, err)

		require.Len(t, updated.Boxes, 5)
		assert.Equal(t, firstBoxID, updated.Boxes[0].ID)
		assert.Equal(t, "003", updated.Boxes[2].SerialNumber)
		assert.Equal(t, "005", updated.Boxes[4].SerialNumber)
	})

	t.Run("personnel transfer swaps the slot and records an audit entry", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")
		newHelperID := f.createEmployee(t, "Carol Wang", "EMP-003")

		item := f.createItem(t, "ITEM-400", 1, helperID, operatorID)

		transfer, err := f.transfers.TransferPersonnel(ctx, mfgapp.PersonnelTransferRequest{
			ItemID: item.ID,
			FromID: helperID,
			ToID:   newHelperID,
			Reason: "shift change",
		})
		require.NoError(t, err)
		assert.Equal(t, "personnel", transfer.Kind)
		assert.Equal(t, "helper", transfer.Role)
		assert.Equal(t, "Alice Chen", transfer.FromName)
		assert.Equal(t, "Carol Wang", transfer.ToName)

		reloaded, err := f.items.GetByID(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, reloaded.Helpers, 1)
		assert.Equal(t, newHelperID, reloaded.Helpers[0].ID)

		audit, err := f.transfers.ListByItem(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, audit, 1)

		// history is queryable from either side of the transfer
		byEmployee, total, err := f.transfers.List(ctx, mfgapp.TransferListFilter{EmployeeID: &newHelperID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, byEmployee, 1)
		assert.Equal(t, transfer.ID, byEmployee[0].ID)

		_, total, err = f.transfers.List(ctx, mfgapp.TransferListFilter{EmployeeID: &operatorID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("transfer from an unassigned employee fails", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")
		outsiderID := f.createEmployee(t, "Carol Wang", "EMP-003")

		item := f.createItem(t, "ITEM-500", 1, helperID, operatorID)

		_, err := f.transfers.TransferPersonnel(ctx, mfgapp.PersonnelTransferRequest{
			ItemID: item.ID,
			FromID: outsiderID,
			ToID:   helperID,
		})
		assert.Error(t, err)
	})

	t.Run("mixture transfer reassigns task forms in bulk", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")
		targetID := f.createEmployee(t, "Carol Wang", "EMP-003")

		item := f.createItem(t, "ITEM-600", 2, helperID, operatorID)

		for _, serial := range []string{"001", "002"} {
			_, err := f.taskForms.Create(ctx, mfgapp.CreateTaskFormRequest{
				ItemID:     item.ID,
				EmployeeID: helperID,
				BoxSerial:  serial,
				Quantity:   decimal.NewFromInt(10),
			})
			require.NoError(t, err)
		}

		transfer, err := f.transfers.TransferMixture(ctx, mfgapp.MixtureTransferRequest{
			ItemID: item.ID,
			FromID: helperID,
			ToID:   targetID,
			Reason: "rebalance",
		})
		require.NoError(t, err)
		assert.Equal(t, "mixture", transfer.Kind)
		assert.Len(t, transfer.TaskFormIDs, 2)

		employeeID := targetID
		forms, total, err := f.taskForms.List(ctx, mfgapp.TaskFormListFilter{
			ItemID:     &item.ID,
			EmployeeID: &employeeID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, form := range forms {
			assert.Equal(t, "Carol Wang", form.EmployeeName)
		}
	})

	t.Run("inactive employee cannot take assignments", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")
		inactiveID := f.createEmployee(t, "Dave Zhou", "EMP-004")

		status := "inactive"
		_, err := f.employees.Update(ctx, inactiveID, workforceapp.UpdateEmployeeRequest{
			Status: &status,
		})
		require.NoError(t, err)

		item := f.createItem(t, "ITEM-700", 1, helperID, operatorID)

		_, err = f.transfers.TransferPersonnel(ctx, mfgapp.PersonnelTransferRequest{
			ItemID: item.ID,
			FromID: helperID,
			ToID:   inactiveID,
		})
		assert.Error(t, err)
	})

	t.Run("delete removes boxes and their labels", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")

		item := f.createItem(t, "ITEM-800", 3, helperID, operatorID)
		require.Equal(t, 4, f.storage.Len())

		require.NoError(t, f.items.Delete(ctx, item.ID))

		_, err := f.items.GetByID(ctx, item.ID)
		assert.Error(t, err)
		assert.Equal(t, 0, f.storage.Len())
	})

	t.Run("listing joins items to catalog products by name", func(t *testing.T) {
		testDB.CleanTables()
		f := newManufacturingFixture(testDB)
		productRepo := persistence.NewGormProductRepository(testDB.DB)
		f.items.SetProductLookup(mfgapp.NewCatalogLookup(productRepo, nil, nil))

		product, err := catalog.NewProduct("WID-100", "ITEM-900", "pcs")
		require.NoError(t, err)
		product.SetPosition(1)
		product.ClearDomainEvents()
		require.NoError(t, productRepo.Save(ctx, product))

		helperID := f.createEmployee(t, "Alice Chen", "EMP-001")
		operatorID := f.createEmployee(t, "Bob Liu", "EMP-002")
		f.createItem(t, "item-900", 1, helperID, operatorID)
		f.createItem(t, "ITEM-901", 1, helperID, operatorID)

		items, total, err := f.items.List(ctx, mfgapp.ItemListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		byNo := make(map[string]mfgapp.ItemListResponse, len(items))
		for _, it := range items {
			byNo[it.ItemNo] = it
		}

		// case-insensitive match
		matched := byNo["item-900"]
		require.NotNil(t, matched.Product)
		assert.Equal(t, product.ID, matched.Product.ID)
		assert.Equal(t, "WID-100", matched.Product.Code)

		assert.Nil(t, byNo["ITEM-901"].Product)
	})
}
