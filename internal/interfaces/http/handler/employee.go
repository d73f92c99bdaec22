package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	workforceapp "github.com/mfg/backend/internal/application/workforce"
)

// EmployeeHandler handles employee API endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *workforceapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *workforceapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
	}
}

// Create handles POST /workforce/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req workforceapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, employee)
}

// GetByID handles GET /workforce/employees/:id
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, employee)
}

// GetByCode handles GET /workforce/employees/code/:code
func (h *EmployeeHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Employee code is required")
		return
	}

	employee, err := h.employeeService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, employee)
}

// List handles GET /workforce/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	var filter workforceapp.EmployeeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}

// Update handles PUT /workforce/employees/:id. Deactivating an employee
// does not touch existing item assignments or task forms.
func (h *EmployeeHandler) Update(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req workforceapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), employeeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, employee)
}

// Delete handles DELETE /workforce/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), employeeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
