package manufacturing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/mfg/backend/internal/domain/shared"
)

// TaskFormService handles mixture work records
type TaskFormService struct {
	taskFormRepo manufacturing.TaskFormRepository
	itemRepo     manufacturing.ItemRepository
	directory    EmployeeDirectory
}

// NewTaskFormService creates a new TaskFormService
func NewTaskFormService(
	taskFormRepo manufacturing.TaskFormRepository,
	itemRepo manufacturing.ItemRepository,
	directory EmployeeDirectory,
) *TaskFormService {
	return &TaskFormService{
		taskFormRepo: taskFormRepo,
		itemRepo:     itemRepo,
		directory:    directory,
	}
}

// Create files a task form against an item
func (s *TaskFormService) Create(ctx context.Context, req CreateTaskFormRequest) (*TaskFormResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	employee, err := s.directory.Snapshot(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	recordedOn := time.Time{}
	if req.RecordedOn != nil {
		recordedOn = *req.RecordedOn
	}

	form, err := manufacturing.NewTaskForm(item.ID, employee, req.BoxSerial, req.Quantity, recordedOn, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.taskFormRepo.Save(ctx, form); err != nil {
		return nil, err
	}

	response := ToTaskFormResponse(form)
	return &response, nil
}

// GetByID retrieves a task form
func (s *TaskFormService) GetByID(ctx context.Context, formID uuid.UUID) (*TaskFormResponse, error) {
	form, err := s.taskFormRepo.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	response := ToTaskFormResponse(form)
	return &response, nil
}

// List retrieves task forms with filtering and pagination
func (s *TaskFormService) List(ctx context.Context, filter TaskFormListFilter) ([]TaskFormResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.OrderBy = "recorded_on"
	domainFilter.OrderDir = "desc"
	if filter.ItemID != nil {
		domainFilter.Filters["item_id"] = *filter.ItemID
	}
	if filter.EmployeeID != nil {
		domainFilter.Filters["employee_id"] = *filter.EmployeeID
	}

	result, err := s.taskFormRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTaskFormResponses(result.Items), result.Total, nil
}
