package workforce

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/mfg/backend/internal/domain/workforce"
)

// EmployeeService handles employee directory operations
type EmployeeService struct {
	employeeRepo workforce.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo workforce.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// Create creates a new employee
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	exists, err := s.employeeRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee with this code already exists")
	}

	employee, err := workforce.NewEmployee(req.Name, req.Code, req.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByCode retrieves an employee by code
func (s *EmployeeService) GetByCode(ctx context.Context, code string) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	result, err := s.employeeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToEmployeeResponses(result.Items), result.Total, nil
}

// Update applies directory changes
func (s *EmployeeService) Update(ctx context.Context, employeeID uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Phone != nil {
		name := employee.Name
		phone := employee.Phone
		if req.Name != nil {
			name = *req.Name
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := employee.Update(name, phone); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		switch workforce.EmployeeStatus(*req.Status) {
		case workforce.EmployeeStatusActive:
			employee.Activate()
		case workforce.EmployeeStatusInactive:
			employee.Deactivate()
		}
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Delete removes an employee from the directory. Snapshots already taken
// on manufacturing items keep the old identity.
func (s *EmployeeService) Delete(ctx context.Context, employeeID uuid.UUID) error {
	return s.employeeRepo.Delete(ctx, employeeID)
}
