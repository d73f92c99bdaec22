package workforce

import (
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/workforce"
)

// CreateEmployeeRequest represents a request to create an employee
type CreateEmployeeRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Code  string `json:"code" binding:"required,min=1,max=50"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateEmployeeRequest represents a request to update an employee
type UpdateEmployeeRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=200"`
	Phone  *string `json:"phone" binding:"omitempty,max=50"`
	Status *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// EmployeeListFilter represents filter options for employee list
type EmployeeListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToEmployeeResponse converts a domain Employee to EmployeeResponse
func ToEmployeeResponse(e *workforce.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Code:      e.Code,
		Phone:     e.Phone,
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		Version:   e.Version,
	}
}

// ToEmployeeResponses converts a slice of domain Employees to EmployeeResponses
func ToEmployeeResponses(employees []workforce.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = ToEmployeeResponse(&employees[i])
	}
	return responses
}
