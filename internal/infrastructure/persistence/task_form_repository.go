package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/mfg/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTaskFormRepository implements manufacturing.TaskFormRepository using GORM
type GormTaskFormRepository struct {
	db *gorm.DB
}

// NewGormTaskFormRepository creates a new GormTaskFormRepository
func NewGormTaskFormRepository(db *gorm.DB) *GormTaskFormRepository {
	return &GormTaskFormRepository{db: db}
}

// Save creates or updates a task form
func (r *GormTaskFormRepository) Save(ctx context.Context, form *manufacturing.TaskForm) error {
	return r.db.WithContext(ctx).Save(form).Error
}

// FindByID finds a task form by ID
func (r *GormTaskFormRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.TaskForm, error) {
	var form manufacturing.TaskForm
	if err := r.db.WithContext(ctx).First(&form, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// FindAll finds task forms matching the filter
func (r *GormTaskFormRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.TaskForm], error) {
	base := r.db.WithContext(ctx).Model(&manufacturing.TaskForm{})

	if itemID, ok := filter.Filters["item_id"]; ok {
		base = base.Where("item_id = ?", itemID)
	}
	if employeeID, ok := filter.Filters["employee_id"]; ok {
		base = base.Where("employee_id = ?", employeeID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var forms []manufacturing.TaskForm
	query := base.Order("recorded_on DESC, created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&forms).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(forms, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindByItemAndEmployee returns the forms an employee filed against an item
func (r *GormTaskFormRepository) FindByItemAndEmployee(ctx context.Context, itemID, employeeID uuid.UUID) ([]manufacturing.TaskForm, error) {
	var forms []manufacturing.TaskForm
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND employee_id = ?", itemID, employeeID).
		Order("recorded_on DESC").
		Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// ReassignOwnership moves every form of the item owned by fromID to toID.
// The affected ids are collected first so the audit record can list them.
func (r *GormTaskFormRepository) ReassignOwnership(ctx context.Context, itemID, fromID, toID uuid.UUID, toName string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&manufacturing.TaskForm{}).
		Where("item_id = ? AND employee_id = ?", itemID, fromID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []uuid.UUID{}, nil
	}

	if err := r.db.WithContext(ctx).Model(&manufacturing.TaskForm{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"employee_id":   toID,
			"employee_name": toName,
			"updated_at":    time.Now(),
		}).Error; err != nil {
		return nil, err
	}

	return ids, nil
}
