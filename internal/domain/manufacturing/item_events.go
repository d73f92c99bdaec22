package manufacturing

import (
	"github.com/mfg/backend/internal/domain/shared"
)

const (
	AggregateTypeItem     = "ManufacturingItem"
	AggregateTypeTransfer = "Transfer"
)

// ItemCreatedEvent fires when a manufacturing item is created
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemNo   string `json:"item_no"`
	BoxCount int    `json:"box_count"`
}

// NewItemCreatedEvent creates a new item created event
func NewItemCreatedEvent(item *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("manufacturing.item.created", AggregateTypeItem, item.ID),
		ItemNo:          item.ItemNo,
		BoxCount:        len(item.Boxes),
	}
}

// ItemBoxesResizedEvent fires when an item's box list is regenerated
type ItemBoxesResizedEvent struct {
	shared.BaseDomainEvent
	ItemNo   string `json:"item_no"`
	OldCount int    `json:"old_count"`
	NewCount int    `json:"new_count"`
}

// NewItemBoxesResizedEvent creates a new boxes resized event
func NewItemBoxesResizedEvent(item *Item, oldCount, newCount int) *ItemBoxesResizedEvent {
	return &ItemBoxesResizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("manufacturing.item.boxes_resized", AggregateTypeItem, item.ID),
		ItemNo:          item.ItemNo,
		OldCount:        oldCount,
		NewCount:        newCount,
	}
}

// PersonnelTransferredEvent fires when an item's assignment slot changes hands
type PersonnelTransferredEvent struct {
	shared.BaseDomainEvent
	ItemNo string `json:"item_no"`
	Role   string `json:"role"`
	FromID string `json:"from_id"`
	ToID   string `json:"to_id"`
}

// NewPersonnelTransferredEvent creates a new personnel transferred event
func NewPersonnelTransferredEvent(item *Item, role PersonnelRole, fromID, toID string) *PersonnelTransferredEvent {
	return &PersonnelTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("manufacturing.item.personnel_transferred", AggregateTypeItem, item.ID),
		ItemNo:          item.ItemNo,
		Role:            string(role),
		FromID:          fromID,
		ToID:            toID,
	}
}
