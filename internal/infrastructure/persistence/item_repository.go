package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/mfg/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var itemSortColumns = map[string]bool{
	"item_no":    true,
	"shift":      true,
	"company":    true,
	"machine":    true,
	"created_at": true,
	"updated_at": true,
}

// GormItemRepository implements manufacturing.ItemRepository using GORM.
// Boxes are loaded and saved together with their item; they have no
// repository of their own.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item with its boxes by ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturing.Item, error) {
	var item manufacturing.Item
	if err := r.db.WithContext(ctx).
		Preload("Boxes", func(db *gorm.DB) *gorm.DB {
			return db.Order("serial_number ASC")
		}).
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByItemNo finds an item with its boxes by business key
func (r *GormItemRepository) FindByItemNo(ctx context.Context, itemNo string) (*manufacturing.Item, error) {
	var item manufacturing.Item
	if err := r.db.WithContext(ctx).
		Preload("Boxes", func(db *gorm.DB) *gorm.DB {
			return db.Order("serial_number ASC")
		}).
		Where("item_no = ?", strings.TrimSpace(itemNo)).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll finds items matching the filter, without box detail
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[manufacturing.Item], error) {
	base := r.db.WithContext(ctx).Model(&manufacturing.Item{})

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		base = base.Where("item_no ILIKE ? OR company ILIKE ?", search, search)
	}
	for _, field := range []string{"shift", "company", "machine"} {
		if value, ok := filter.Filters[field]; ok {
			base = base.Where(field+" = ?", value)
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []manufacturing.Item
	query := base.
		Preload("Boxes", func(db *gorm.DB) *gorm.DB {
			return db.Order("serial_number ASC")
		}).
		Order(sanitizeOrder(filter.OrderBy, filter.OrderDir, itemSortColumns, "created_at DESC"))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates the item together with its boxes
func (r *GormItemRepository) Save(ctx context.Context, item *manufacturing.Item) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(item).Error
}

// Delete removes an item; box rows go with it via the cascade constraint
func (r *GormItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Select("Boxes").Delete(&manufacturing.Item{BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: shared.BaseEntity{ID: id}}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByItemNo checks if an item with the business key exists
func (r *GormItemRepository) ExistsByItemNo(ctx context.Context, itemNo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&manufacturing.Item{}).
		Where("item_no = ?", strings.TrimSpace(itemNo)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceBoxes swaps the item's entire box set and saves the item row.
// Meant to run inside a transaction scope.
func (r *GormItemRepository) ReplaceBoxes(ctx context.Context, item *manufacturing.Item, boxes []manufacturing.Box) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("item_id = ?", item.ID).Delete(&manufacturing.Box{}).Error; err != nil {
		return err
	}
	if len(boxes) > 0 {
		if err := db.Create(&boxes).Error; err != nil {
			return err
		}
	}

	return db.Omit("Boxes").Save(item).Error
}

// AppendBoxes inserts additional box rows and saves the item row
func (r *GormItemRepository) AppendBoxes(ctx context.Context, item *manufacturing.Item, boxes []manufacturing.Box) error {
	db := r.db.WithContext(ctx)

	if len(boxes) > 0 {
		if err := db.Create(&boxes).Error; err != nil {
			return err
		}
	}

	return db.Omit("Boxes").Save(item).Error
}
