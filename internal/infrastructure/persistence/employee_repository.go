package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/mfg/backend/internal/domain/workforce"
	"gorm.io/gorm"
)

var employeeSortColumns = map[string]bool{
	"name":       true,
	"code":       true,
	"created_at": true,
	"updated_at": true,
}

// GormEmployeeRepository implements workforce.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.Employee, error) {
	var employee workforce.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindByCode finds an employee by code
func (r *GormEmployeeRepository) FindByCode(ctx context.Context, code string) (*workforce.Employee, error) {
	var employee workforce.Employee
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindAll finds employees matching the filter
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[workforce.Employee], error) {
	base := r.db.WithContext(ctx).Model(&workforce.Employee{})

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		base = base.Where("name ILIKE ? OR code ILIKE ?", search, search)
	}
	if status, ok := filter.Filters["status"]; ok {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var employees []workforce.Employee
	query := base.Order(sanitizeOrder(filter.OrderBy, filter.OrderDir, employeeSortColumns, "name ASC"))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(employees, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *workforce.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// Delete removes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&workforce.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if an employee with the code exists
func (r *GormEmployeeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&workforce.Employee{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
