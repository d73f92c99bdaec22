package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/mfg/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransferRepository implements manufacturing.TransferRepository using
// GORM. Rows are append-only; no update or delete methods exist.
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Save inserts a transfer record
func (r *GormTransferRepository) Save(ctx context.Context, transfer *manufacturing.Transfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}

// FindByID finds a transfer by ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.Transfer, error) {
	var transfer manufacturing.Transfer
	if err := r.db.WithContext(ctx).First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll finds transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.Transfer], error) {
	base := r.db.WithContext(ctx).Model(&manufacturing.Transfer{})

	if kind, ok := filter.Filters["kind"]; ok {
		base = base.Where("kind = ?", kind)
	}
	if employeeID, ok := filter.Filters["employee_id"]; ok {
		base = base.Where("from_id = ? OR to_id = ?", employeeID, employeeID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var transfers []manufacturing.Transfer
	query := base.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(transfers, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByItemID returns the full transfer history of an item, newest first
func (r *GormTransferRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]manufacturing.Transfer, error) {
	var transfers []manufacturing.Transfer
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
