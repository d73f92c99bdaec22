package manufacturing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BoxStatus represents the stock status of a single box
type BoxStatus string

const (
	BoxStatusInStock BoxStatus = "In Stock"
	BoxStatusShipped BoxStatus = "Shipped"
)

// serialWidth is the zero-padding width of box serial numbers
const serialWidth = 3

// MaxBoxes bounds the total boxes on one item. Serials past 999 would
// break the fixed three-digit width and no longer sort lexicographically.
const MaxBoxes = 999

// SerialNumber formats the 1-based ordinal of a box as a zero-padded serial
func SerialNumber(ordinal int) string {
	return fmt.Sprintf("%0*d", serialWidth, ordinal)
}

// EmployeeSnapshot is a denormalized copy of an employee's identity taken at
// assignment time. It is refreshed only by an explicit transfer, never
// re-synced from the directory; staleness after a directory edit is intended.
type EmployeeSnapshot struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// EmployeeSnapshots is stored as a jsonb column on the item row
type EmployeeSnapshots []EmployeeSnapshot

// Value implements driver.Valuer
func (s EmployeeSnapshots) Value() (driver.Value, error) {
	if s == nil {
		s = EmployeeSnapshots{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *EmployeeSnapshots) Scan(value interface{}) error {
	if value == nil {
		*s = EmployeeSnapshots{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for EmployeeSnapshots", value)
	}
}

// Box is a uniquely serial-numbered physical unit owned by one item. Its
// label image lives in object storage; the row keeps only the location.
type Box struct {
	shared.BaseEntity
	ItemID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_box_item_serial,priority:1"`
	SerialNumber string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_box_item_serial,priority:2"`
	LabelKey     string    `gorm:"type:varchar(500);not null"`
	LabelURL     string    `gorm:"type:varchar(1000)"`
	Status       BoxStatus `gorm:"type:varchar(20);not null;default:'In Stock'"`
}

// TableName returns the table name for GORM
func (Box) TableName() string {
	return "boxes"
}

// NewBox creates a box for the given 1-based ordinal within its parent item
func NewBox(itemID uuid.UUID, ordinal int, labelKey, labelURL string) Box {
	return Box{
		BaseEntity:   shared.NewBaseEntity(),
		ItemID:       itemID,
		SerialNumber: SerialNumber(ordinal),
		LabelKey:     labelKey,
		LabelURL:     labelURL,
		Status:       BoxStatusInStock,
	}
}

// Item represents a produced manufacturing batch identified by its business
// key ItemNo. It owns its boxes exclusively and carries denormalized
// personnel snapshots for helpers and operators.
type Item struct {
	shared.BaseAggregateRoot
	ItemNo         string            `gorm:"type:varchar(100);not null;uniqueIndex"`
	Length         decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	StickCount     int               `gorm:"not null;default:0"`
	Shift          string            `gorm:"type:varchar(20)"`
	Company        string            `gorm:"type:varchar(200)"`
	Machine        string            `gorm:"type:varchar(100)"`
	PhotoKey       string            `gorm:"type:varchar(500)"`
	PhotoURL       string            `gorm:"type:varchar(1000)"`
	PendingBoxes   int               `gorm:"not null;default:0"`
	CompletedBoxes int               `gorm:"not null;default:0"`
	Helpers        EmployeeSnapshots `gorm:"type:jsonb;not null;default:'[]'"`
	Operators      EmployeeSnapshots `gorm:"type:jsonb;not null;default:'[]'"`
	Boxes          []Box             `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "manufacturing_items"
}

// ItemMetadata groups the descriptive attributes of an item
type ItemMetadata struct {
	Length     decimal.Decimal
	StickCount int
	Shift      string
	Company    string
	Machine    string
}

// NewItem creates a manufacturing item with one helper and one operator
// snapshot. Boxes are attached separately once their labels are stored.
func NewItem(itemNo string, meta ItemMetadata, helper, operator EmployeeSnapshot) (*Item, error) {
	if err := validateItemNo(itemNo); err != nil {
		return nil, err
	}
	if helper.ID == uuid.Nil || operator.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Helper and operator are required")
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemNo:            strings.TrimSpace(itemNo),
		Length:            meta.Length,
		StickCount:        meta.StickCount,
		Shift:             meta.Shift,
		Company:           meta.Company,
		Machine:           meta.Machine,
		Helpers:           EmployeeSnapshots{helper},
		Operators:         EmployeeSnapshots{operator},
		Boxes:             make([]Box, 0),
	}

	item.AddDomainEvent(NewItemCreatedEvent(item))

	return item, nil
}

// BoxCount returns the current number of boxes
func (i *Item) BoxCount() int {
	return len(i.Boxes)
}

// AttachBoxes sets the initial box batch on a freshly created item
func (i *Item) AttachBoxes(boxes []Box) {
	i.Boxes = boxes
	i.PendingBoxes = len(boxes)
	i.CompletedBoxes = 0
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// ReplaceBoxes discards the entire box list and installs a regenerated one.
// Old box identities and statuses are not carried over; this is the
// documented destructive-resize path.
func (i *Item) ReplaceBoxes(boxes []Box) {
	old := len(i.Boxes)
	i.Boxes = boxes
	i.PendingBoxes = len(boxes)
	i.CompletedBoxes = 0
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewItemBoxesResizedEvent(i, old, len(boxes)))
}

// AppendBoxes grows the box list without touching existing boxes
func (i *Item) AppendBoxes(boxes []Box) {
	i.Boxes = append(i.Boxes, boxes...)
	i.PendingBoxes += len(boxes)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// UpdateMetadata applies descriptive attribute changes
func (i *Item) UpdateMetadata(meta ItemMetadata) {
	i.Length = meta.Length
	i.StickCount = meta.StickCount
	i.Shift = meta.Shift
	i.Company = meta.Company
	i.Machine = meta.Machine
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// SetPhoto records the stored photo location
func (i *Item) SetPhoto(storageKey, url string) {
	i.PhotoKey = storageKey
	i.PhotoURL = url
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// PersonnelRole identifies which assignment list a snapshot lives in
type PersonnelRole string

const (
	RoleHelper   PersonnelRole = "helper"
	RoleOperator PersonnelRole = "operator"
)

// ReplacePersonnel substitutes the slot currently held by fromID with the
// target employee's snapshot. The search checks helpers first, then
// operators; the untouched list is left as is. Returns the affected role,
// or false when fromID holds no slot on this item.
func (i *Item) ReplacePersonnel(fromID uuid.UUID, to EmployeeSnapshot) (PersonnelRole, bool) {
	for idx, s := range i.Helpers {
		if s.ID == fromID {
			i.Helpers[idx] = to
			i.UpdatedAt = time.Now()
			i.IncrementVersion()
			return RoleHelper, true
		}
	}
	for idx, s := range i.Operators {
		if s.ID == fromID {
			i.Operators[idx] = to
			i.UpdatedAt = time.Now()
			i.IncrementVersion()
			return RoleOperator, true
		}
	}
	return "", false
}

// validateItemNo validates the item business key
func validateItemNo(itemNo string) error {
	trimmed := strings.TrimSpace(itemNo)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_ITEM_NO", "Item number cannot be empty")
	}
	if len(trimmed) > 100 {
		return shared.NewDomainError("INVALID_ITEM_NO", "Item number cannot exceed 100 characters")
	}
	return nil
}
