package workforce

import (
	"strings"
	"time"

	"github.com/mfg/backend/internal/domain/shared"
)

// EmployeeStatus represents employment status
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

// Employee is a directory entry. Manufacturing items keep denormalized
// snapshots of employees, so edits here never propagate backwards.
type Employee struct {
	shared.BaseAggregateRoot
	Name   string         `gorm:"type:varchar(200);not null"`
	Code   string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Phone  string         `gorm:"type:varchar(50)"`
	Status EmployeeStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates a directory entry
func NewEmployee(name, code, phone string) (*Employee, error) {
	if err := validateEmployeeName(name); err != nil {
		return nil, err
	}
	if err := validateEmployeeCode(code); err != nil {
		return nil, err
	}

	return &Employee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Phone:             strings.TrimSpace(phone),
		Status:            EmployeeStatusActive,
	}, nil
}

// Update applies directory changes
func (e *Employee) Update(name, phone string) error {
	if err := validateEmployeeName(name); err != nil {
		return err
	}

	e.Name = strings.TrimSpace(name)
	e.Phone = strings.TrimSpace(phone)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Deactivate marks the employee as no longer employed
func (e *Employee) Deactivate() {
	e.Status = EmployeeStatusInactive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// Activate restores an inactive employee
func (e *Employee) Activate() {
	e.Status = EmployeeStatusActive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// IsActive returns true when the employee can take assignments
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}

func validateEmployeeName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_EMPLOYEE_NAME", "Employee name cannot be empty")
	}
	if len(trimmed) > 200 {
		return shared.NewDomainError("INVALID_EMPLOYEE_NAME", "Employee name cannot exceed 200 characters")
	}
	return nil
}

func validateEmployeeCode(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return shared.NewDomainError("INVALID_EMPLOYEE_CODE", "Employee code cannot be empty")
	}
	if len(trimmed) > 50 {
		return shared.NewDomainError("INVALID_EMPLOYEE_CODE", "Employee code cannot exceed 50 characters")
	}
	return nil
}
