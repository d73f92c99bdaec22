package manufacturing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
)

// TransferKind distinguishes the two reassignment flows
type TransferKind string

const (
	// TransferKindPersonnel swaps one assignment slot on a single item
	TransferKindPersonnel TransferKind = "personnel"
	// TransferKindMixture reassigns task-form ownership in bulk for an item
	TransferKindMixture TransferKind = "mixture"
)

// UUIDList is stored as a jsonb column
type UUIDList []uuid.UUID

// Value implements driver.Valuer
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		l = UUIDList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *UUIDList) Scan(value interface{}) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for UUIDList", value)
	}
}

// Transfer is the immutable audit record of a reassignment. Rows are only
// ever inserted; there is no update or delete path.
type Transfer struct {
	shared.BaseEntity
	Kind        TransferKind `gorm:"type:varchar(20);not null;index"`
	ItemID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	ItemNo      string       `gorm:"type:varchar(100);not null"`
	Role        string       `gorm:"type:varchar(20)"`
	FromID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	FromName    string       `gorm:"type:varchar(200);not null"`
	FromCode    string       `gorm:"type:varchar(50);not null"`
	ToID        uuid.UUID    `gorm:"type:uuid;not null;index"`
	ToName      string       `gorm:"type:varchar(200);not null"`
	ToCode      string       `gorm:"type:varchar(50);not null"`
	Reason      string       `gorm:"type:varchar(500)"`
	TaskFormIDs UUIDList     `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// NewPersonnelTransfer records a single-slot substitution on an item
func NewPersonnelTransfer(item *Item, role PersonnelRole, from, to EmployeeSnapshot, reason string) *Transfer {
	return &Transfer{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       TransferKindPersonnel,
		ItemID:     item.ID,
		ItemNo:     item.ItemNo,
		Role:       string(role),
		FromID:     from.ID,
		FromName:   from.Name,
		FromCode:   from.Code,
		ToID:       to.ID,
		ToName:     to.Name,
		ToCode:     to.Code,
		Reason:     reason,
	}
}

// NewMixtureTransfer records a bulk task-form ownership change, listing the
// exact forms that were reassigned
func NewMixtureTransfer(item *Item, from, to EmployeeSnapshot, reason string, taskFormIDs []uuid.UUID) *Transfer {
	return &Transfer{
		BaseEntity:  shared.NewBaseEntity(),
		Kind:        TransferKindMixture,
		ItemID:      item.ID,
		ItemNo:      item.ItemNo,
		FromID:      from.ID,
		FromName:    from.Name,
		FromCode:    from.Code,
		ToID:        to.ID,
		ToName:      to.Name,
		ToCode:      to.Code,
		Reason:      reason,
		TaskFormIDs: taskFormIDs,
	}
}
