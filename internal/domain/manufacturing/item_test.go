package manufacturing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testHelper() EmployeeSnapshot {
	return EmployeeSnapshot{ID: uuid.New(), Name: "Alice Chen", Code: "EMP-001"}
}

func testOperator() EmployeeSnapshot {
	return EmployeeSnapshot{ID: uuid.New(), Name: "Bob Liu", Code: "EMP-002"}
}

func testMetadata() ItemMetadata {
	return ItemMetadata{
		Length:     decimal.NewFromInt(1200),
		StickCount: 48,
		Shift:      "day",
		Company:    "Acme Fibers",
		Machine:    "M-07",
	}
}

func makeBoxes(itemID uuid.UUID, from, to int) []Box {
	boxes := make([]Box, 0, to-from+1)
	for n := from; n <= to; n++ {
		boxes = append(boxes, NewBox(itemID, n, "labels/"+SerialNumber(n)+".png", ""))
	}
	return boxes
}

func TestSerialNumber(t *testing.T) {
	assert.Equal(t, "001", SerialNumber(1))
	assert.Equal(t, "042", SerialNumber(42))
	assert.Equal(t, "100", SerialNumber(100))
	assert.Equal(t, "999", SerialNumber(MaxBoxes))
}

func TestNewItem(t *testing.T) {
	t.Run("should create item with valid data", func(t *testing.T) {
		item, err := NewItem("ITM-2024-001", testMetadata(), testHelper(), testOperator())

		assert.NoError(t, err)
		assert.NotNil(t, item)
		assert.Equal(t, "ITM-2024-001", item.ItemNo)
		assert.Equal(t, 48, item.StickCount)
		assert.Len(t, item.Helpers, 1)
		assert.Len(t, item.Operators, 1)
		assert.Equal(t, 0, item.BoxCount())

		events := item.GetDomainEvents()
		assert.Len(t, events, 1)
		assert.Equal(t, "manufacturing.item.created", events[0].EventType())
		assert.Equal(t, item.ID, events[0].AggregateID())
		assert.Equal(t, AggregateTypeItem, events[0].AggregateType())
	})

	t.Run("should fail with empty item number", func(t *testing.T) {
		item, err := NewItem("  ", testMetadata(), testHelper(), testOperator())

		assert.Error(t, err)
		assert.Nil(t, item)
	})

	t.Run("should fail without operator", func(t *testing.T) {
		item, err := NewItem("ITM-2024-002", testMetadata(), testHelper(), EmployeeSnapshot{})

		assert.Error(t, err)
		assert.Nil(t, item)
	})
}

func TestItemAttachBoxes(t *testing.T) {
	item, err := NewItem("ITM-2024-003", testMetadata(), testHelper(), testOperator())
	assert.NoError(t, err)

	item.AttachBoxes(makeBoxes(item.ID, 1, 5))

	assert.Equal(t, 5, item.BoxCount())
	assert.Equal(t, 5, item.PendingBoxes)
	assert.Equal(t, 0, item.CompletedBoxes)
	assert.Equal(t, "001", item.Boxes[0].SerialNumber)
	assert.Equal(t, "005", item.Boxes[4].SerialNumber)
	assert.Equal(t, BoxStatusInStock, item.Boxes[0].Status)
}

func TestItemReplaceBoxes(t *testing.T) {
	item, err := NewItem("ITM-2024-004", testMetadata(), testHelper(), testOperator())
	assert.NoError(t, err)
	item.AttachBoxes(makeBoxes(item.ID, 1, 10))
	oldFirstID := item.Boxes[0].ID
	item.CompletedBoxes = 3
	item.PendingBoxes = 7

	item.ReplaceBoxes(makeBoxes(item.ID, 1, 4))

	assert.Equal(t, 4, item.BoxCount())
	assert.Equal(t, 4, item.PendingBoxes)
	assert.Equal(t, 0, item.CompletedBoxes)
	assert.NotEqual(t, oldFirstID, item.Boxes[0].ID, "resize regenerates box identity")

	events := item.GetDomainEvents()
	resized := events[len(events)-1]
	assert.Equal(t, "manufacturing.item.boxes_resized", resized.EventType())
	assert.Equal(t, item.ID, resized.AggregateID())
}

func TestItemAppendBoxes(t *testing.T) {
	item, err := NewItem("ITM-2024-005", testMetadata(), testHelper(), testOperator())
	assert.NoError(t, err)
	item.AttachBoxes(makeBoxes(item.ID, 1, 3))
	firstID := item.Boxes[0].ID

	item.AppendBoxes(makeBoxes(item.ID, 4, 6))

	assert.Equal(t, 6, item.BoxCount())
	assert.Equal(t, 6, item.PendingBoxes)
	assert.Equal(t, firstID, item.Boxes[0].ID, "append keeps existing boxes")
	assert.Equal(t, "004", item.Boxes[3].SerialNumber)
	assert.Equal(t, "006", item.Boxes[5].SerialNumber)
}

func TestItemReplacePersonnel(t *testing.T) {
	t.Run("should replace helper slot", func(t *testing.T) {
		helper := testHelper()
		item, err := NewItem("ITM-2024-006", testMetadata(), helper, testOperator())
		assert.NoError(t, err)
		replacement := EmployeeSnapshot{ID: uuid.New(), Name: "Carol Wu", Code: "EMP-009"}

		role, ok := item.ReplacePersonnel(helper.ID, replacement)

		assert.True(t, ok)
		assert.Equal(t, RoleHelper, role)
		assert.Equal(t, replacement.ID, item.Helpers[0].ID)
		assert.Equal(t, "Carol Wu", item.Helpers[0].Name)
	})

	t.Run("should replace operator slot", func(t *testing.T) {
		operator := testOperator()
		item, err := NewItem("ITM-2024-007", testMetadata(), testHelper(), operator)
		assert.NoError(t, err)
		replacement := EmployeeSnapshot{ID: uuid.New(), Name: "Dan Zhou", Code: "EMP-010"}

		role, ok := item.ReplacePersonnel(operator.ID, replacement)

		assert.True(t, ok)
		assert.Equal(t, RoleOperator, role)
		assert.Equal(t, replacement.ID, item.Operators[0].ID)
	})

	t.Run("should report miss for unassigned employee", func(t *testing.T) {
		item, err := NewItem("ITM-2024-008", testMetadata(), testHelper(), testOperator())
		assert.NoError(t, err)

		role, ok := item.ReplacePersonnel(uuid.New(), testHelper())

		assert.False(t, ok)
		assert.Empty(t, role)
	})
}

func TestNewMixtureTransfer(t *testing.T) {
	item, err := NewItem("ITM-2024-009", testMetadata(), testHelper(), testOperator())
	assert.NoError(t, err)
	from := testHelper()
	to := testOperator()
	formIDs := []uuid.UUID{uuid.New(), uuid.New()}

	transfer := NewMixtureTransfer(item, from, to, "shift handover", formIDs)

	assert.Equal(t, TransferKindMixture, transfer.Kind)
	assert.Equal(t, item.ID, transfer.ItemID)
	assert.Equal(t, "ITM-2024-009", transfer.ItemNo)
	assert.Equal(t, from.ID, transfer.FromID)
	assert.Equal(t, to.ID, transfer.ToID)
	assert.Len(t, transfer.TaskFormIDs, 2)
	assert.Empty(t, transfer.Role)
}
