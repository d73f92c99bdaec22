package manufacturing

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/shopspring/decimal"
)

// PhotoUpload carries the raw bytes of an uploaded item photo
type PhotoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateItemRequest represents a request to create a manufacturing item
// with its initial box batch. The item photo is mandatory and is stored
// together with the item.
type CreateItemRequest struct {
	ItemNo     string          `json:"item_no" form:"item_no" binding:"required,min=1,max=100"`
	Length     decimal.Decimal `json:"length" form:"length"`
	StickCount int             `json:"stick_count" form:"stick_count" binding:"omitempty,min=0"`
	Shift      string          `json:"shift" form:"shift" binding:"max=20"`
	Company    string          `json:"company" form:"company" binding:"max=200"`
	Machine    string          `json:"machine" form:"machine" binding:"max=100"`
	BoxCount   int             `json:"box_count" form:"box_count" binding:"required,min=1,max=500"`
	HelperID   uuid.UUID       `json:"helper_id" form:"helper_id" binding:"required"`
	OperatorID uuid.UUID       `json:"operator_id" form:"operator_id" binding:"required"`
	Photo      PhotoUpload     `json:"-" form:"-"`
}

// UpdateItemRequest represents a request to update an item. A BoxCount that
// differs from the current count triggers the destructive resize.
type UpdateItemRequest struct {
	Length     *decimal.Decimal `json:"length"`
	StickCount *int             `json:"stick_count" binding:"omitempty,min=0"`
	Shift      *string          `json:"shift" binding:"omitempty,max=20"`
	Company    *string          `json:"company" binding:"omitempty,max=200"`
	Machine    *string          `json:"machine" binding:"omitempty,max=100"`
	BoxCount   *int             `json:"box_count" binding:"omitempty,min=1,max=500"`
}

// AddBoxesRequest represents a request to append boxes to an item
type AddBoxesRequest struct {
	Count int `json:"count" binding:"required,min=1,max=500"`
}

// PersonnelTransferRequest swaps one assignment slot on an item
type PersonnelTransferRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	FromID uuid.UUID `json:"from_id" binding:"required"`
	ToID   uuid.UUID `json:"to_id" binding:"required"`
	Reason string    `json:"reason" binding:"max=500"`
}

// MixtureTransferRequest reassigns task-form ownership in bulk
type MixtureTransferRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	FromID uuid.UUID `json:"from_id" binding:"required"`
	ToID   uuid.UUID `json:"to_id" binding:"required"`
	Reason string    `json:"reason" binding:"max=500"`
}

// CreateTaskFormRequest files a mixture work record against an item
type CreateTaskFormRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	EmployeeID uuid.UUID       `json:"employee_id" binding:"required"`
	BoxSerial  string          `json:"box_serial" binding:"max=10"`
	Quantity   decimal.Decimal `json:"quantity"`
	RecordedOn *time.Time      `json:"recorded_on"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// ItemListFilter represents filter options for item list
type ItemListFilter struct {
	Search   string `form:"search"`
	Shift    string `form:"shift"`
	Company  string `form:"company"`
	Machine  string `form:"machine"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// TransferListFilter represents filter options for the transfer audit
// history. EmployeeID matches either side of a transfer.
type TransferListFilter struct {
	Kind       string     `form:"kind" binding:"omitempty,oneof=personnel mixture"`
	EmployeeID *uuid.UUID `form:"employee_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EmployeeSnapshotResponse mirrors the snapshot stored on the item
type EmployeeSnapshotResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}

// BoxResponse represents a box in API responses
type BoxResponse struct {
	ID           uuid.UUID `json:"id"`
	SerialNumber string    `json:"serial_number"`
	LabelURL     string    `json:"label_url"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ItemResponse represents a manufacturing item in API responses
type ItemResponse struct {
	ID             uuid.UUID                  `json:"id"`
	ItemNo         string                     `json:"item_no"`
	Length         decimal.Decimal            `json:"length"`
	StickCount     int                        `json:"stick_count"`
	Shift          string                     `json:"shift"`
	Company        string                     `json:"company"`
	Machine        string                     `json:"machine"`
	PhotoURL       string                     `json:"photo_url"`
	PendingBoxes   int                        `json:"pending_boxes"`
	CompletedBoxes int                        `json:"completed_boxes"`
	Helpers        []EmployeeSnapshotResponse `json:"helpers"`
	Operators      []EmployeeSnapshotResponse `json:"operators"`
	Boxes          []BoxResponse              `json:"boxes"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
	Version        int                        `json:"version"`
}

// ItemListResponse represents a list item without the box detail. Product
// is the catalog association resolved by name, null when no product
// matches the item number.
type ItemListResponse struct {
	ID             uuid.UUID       `json:"id"`
	ItemNo         string          `json:"item_no"`
	Length         decimal.Decimal `json:"length"`
	StickCount     int             `json:"stick_count"`
	Shift          string          `json:"shift"`
	Company        string          `json:"company"`
	Machine        string          `json:"machine"`
	PendingBoxes   int             `json:"pending_boxes"`
	CompletedBoxes int             `json:"completed_boxes"`
	BoxCount       int             `json:"box_count"`
	Product        *ProductRef     `json:"product"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransferResponse represents a transfer audit record in API responses
type TransferResponse struct {
	ID          uuid.UUID   `json:"id"`
	Kind        string      `json:"kind"`
	ItemID      uuid.UUID   `json:"item_id"`
	ItemNo      string      `json:"item_no"`
	Role        string      `json:"role,omitempty"`
	FromID      uuid.UUID   `json:"from_id"`
	FromName    string      `json:"from_name"`
	ToID        uuid.UUID   `json:"to_id"`
	ToName      string      `json:"to_name"`
	Reason      string      `json:"reason"`
	TaskFormIDs []uuid.UUID `json:"task_form_ids,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TaskFormResponse represents a task form in API responses
type TaskFormResponse struct {
	ID           uuid.UUID       `json:"id"`
	ItemID       uuid.UUID       `json:"item_id"`
	EmployeeID   uuid.UUID       `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	BoxSerial    string          `json:"box_serial"`
	Quantity     decimal.Decimal `json:"quantity"`
	RecordedOn   time.Time       `json:"recorded_on"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}

// TaskFormListFilter represents filter options for task form list
type TaskFormListFilter struct {
	ItemID     *uuid.UUID `form:"item_id"`
	EmployeeID *uuid.UUID `form:"employee_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func toSnapshotResponses(snapshots manufacturing.EmployeeSnapshots) []EmployeeSnapshotResponse {
	out := make([]EmployeeSnapshotResponse, len(snapshots))
	for i, s := range snapshots {
		out[i] = EmployeeSnapshotResponse{ID: s.ID, Name: s.Name, Code: s.Code}
	}
	return out
}

// ToBoxResponse converts a domain Box to BoxResponse
func ToBoxResponse(b *manufacturing.Box) BoxResponse {
	return BoxResponse{
		ID:           b.ID,
		SerialNumber: b.SerialNumber,
		LabelURL:     b.LabelURL,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(item *manufacturing.Item) ItemResponse {
	boxes := make([]BoxResponse, len(item.Boxes))
	for i := range item.Boxes {
		boxes[i] = ToBoxResponse(&item.Boxes[i])
	}
	return ItemResponse{
		ID:             item.ID,
		ItemNo:         item.ItemNo,
		Length:         item.Length,
		StickCount:     item.StickCount,
		Shift:          item.Shift,
		Company:        item.Company,
		Machine:        item.Machine,
		PhotoURL:       item.PhotoURL,
		PendingBoxes:   item.PendingBoxes,
		CompletedBoxes: item.CompletedBoxes,
		Helpers:        toSnapshotResponses(item.Helpers),
		Operators:      toSnapshotResponses(item.Operators),
		Boxes:          boxes,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
		Version:        item.Version,
	}
}

// ToItemListResponse converts a domain Item to ItemListResponse
func ToItemListResponse(item *manufacturing.Item) ItemListResponse {
	return ItemListResponse{
		ID:             item.ID,
		ItemNo:         item.ItemNo,
		Length:         item.Length,
		StickCount:     item.StickCount,
		Shift:          item.Shift,
		Company:        item.Company,
		Machine:        item.Machine,
		PendingBoxes:   item.PendingBoxes,
		CompletedBoxes: item.CompletedBoxes,
		BoxCount:       item.BoxCount(),
		CreatedAt:      item.CreatedAt,
	}
}

// ToItemListResponses converts a slice of domain Items to ItemListResponses
func ToItemListResponses(items []manufacturing.Item) []ItemListResponse {
	responses := make([]ItemListResponse, len(items))
	for i := range items {
		responses[i] = ToItemListResponse(&items[i])
	}
	return responses
}

// ToTransferResponse converts a domain Transfer to TransferResponse
func ToTransferResponse(t *manufacturing.Transfer) TransferResponse {
	return TransferResponse{
		ID:          t.ID,
		Kind:        string(t.Kind),
		ItemID:      t.ItemID,
		ItemNo:      t.ItemNo,
		Role:        t.Role,
		FromID:      t.FromID,
		FromName:    t.FromName,
		ToID:        t.ToID,
		ToName:      t.ToName,
		Reason:      t.Reason,
		TaskFormIDs: t.TaskFormIDs,
		CreatedAt:   t.CreatedAt,
	}
}

// ToTransferResponses converts a slice of domain Transfers to TransferResponses
func ToTransferResponses(transfers []manufacturing.Transfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i])
	}
	return responses
}

// ToTaskFormResponse converts a domain TaskForm to TaskFormResponse
func ToTaskFormResponse(f *manufacturing.TaskForm) TaskFormResponse {
	return TaskFormResponse{
		ID:           f.ID,
		ItemID:       f.ItemID,
		EmployeeID:   f.EmployeeID,
		EmployeeName: f.EmployeeName,
		BoxSerial:    f.BoxSerial,
		Quantity:     f.Quantity,
		RecordedOn:   f.RecordedOn,
		Notes:        f.Notes,
		CreatedAt:    f.CreatedAt,
	}
}

// ToTaskFormResponses converts a slice of domain TaskForms to TaskFormResponses
func ToTaskFormResponses(forms []manufacturing.TaskForm) []TaskFormResponse {
	responses := make([]TaskFormResponse, len(forms))
	for i := range forms {
		responses[i] = ToTaskFormResponse(&forms[i])
	}
	return responses
}
