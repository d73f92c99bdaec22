package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	mfgapp "github.com/mfg/backend/internal/application/manufacturing"
)

// TaskFormHandler handles mixture task form API endpoints
type TaskFormHandler struct {
	BaseHandler
	taskFormService *mfgapp.TaskFormService
}

// NewTaskFormHandler creates a new TaskFormHandler
func NewTaskFormHandler(taskFormService *mfgapp.TaskFormService) *TaskFormHandler {
	return &TaskFormHandler{
		taskFormService: taskFormService,
	}
}

// Create handles POST /manufacturing/task-forms. The employee must be
// active and currently assigned to the item.
func (h *TaskFormHandler) Create(c *gin.Context) {
	var req mfgapp.CreateTaskFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	form, err := h.taskFormService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, form)
}

// GetByID handles GET /manufacturing/task-forms/:id
func (h *TaskFormHandler) GetByID(c *gin.Context) {
	formID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task form ID format")
		return
	}

	form, err := h.taskFormService.GetByID(c.Request.Context(), formID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, form)
}

// List handles GET /manufacturing/task-forms with optional item and
// employee filters
func (h *TaskFormHandler) List(c *gin.Context) {
	var filter mfgapp.TaskFormListFilter
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

	forms, total, err := h.taskFormService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, forms, total, filter.Page, filter.PageSize)
}
