package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TaskForm is a mixture work record filed by an employee against an item.
// Ownership (EmployeeID) can be bulk-reassigned by a mixture transfer.
type TaskForm struct {
	shared.BaseEntity
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeName string          `gorm:"type:varchar(200);not null"`
	BoxSerial    string          `gorm:"type:varchar(10)"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	RecordedOn   time.Time       `gorm:"not null"`
	Notes        string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TaskForm) TableName() string {
	return "task_forms"
}

// NewTaskForm creates a mixture work record
func NewTaskForm(itemID uuid.UUID, employee EmployeeSnapshot, boxSerial string, quantity decimal.Decimal, recordedOn time.Time, notes string) (*TaskForm, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item is required")
	}
	if employee.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee is required")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if recordedOn.IsZero() {
		recordedOn = time.Now()
	}

	return &TaskForm{
		BaseEntity:   shared.NewBaseEntity(),
		ItemID:       itemID,
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		BoxSerial:    boxSerial,
		Quantity:     quantity,
		RecordedOn:   recordedOn,
		Notes:        notes,
	}, nil
}
