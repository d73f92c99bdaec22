package workforce

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/mfg/backend/internal/domain/workforce"
)

// Directory adapts the employee repository to the snapshot lookup the
// manufacturing services expect. Inactive employees cannot take new
// assignments.
type Directory struct {
	employeeRepo workforce.EmployeeRepository
}

// NewDirectory creates a Directory backed by the employee repository
func NewDirectory(employeeRepo workforce.EmployeeRepository) *Directory {
	return &Directory{employeeRepo: employeeRepo}
}

// Snapshot resolves an employee id into an assignment snapshot
func (d *Directory) Snapshot(ctx context.Context, id uuid.UUID) (manufacturing.EmployeeSnapshot, error) {
	employee, err := d.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return manufacturing.EmployeeSnapshot{}, err
	}
	if !employee.IsActive() {
		return manufacturing.EmployeeSnapshot{}, shared.NewDomainError("EMPLOYEE_INACTIVE", "Employee is not active")
	}

	return manufacturing.EmployeeSnapshot{
		ID:   employee.ID,
		Name: employee.Name,
		Code: employee.Code,
	}, nil
}
