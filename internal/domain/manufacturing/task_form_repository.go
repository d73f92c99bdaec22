package manufacturing

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
)

// TaskFormRepository persists mixture work records
type TaskFormRepository interface {
	Save(ctx context.Context, form *TaskForm) error
	FindByID(ctx context.Context, id uuid.UUID) (*TaskForm, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[TaskForm], error)
	FindByItemAndEmployee(ctx context.Context, itemID, employeeID uuid.UUID) ([]TaskForm, error)

	// ReassignOwnership moves every form of the item owned by fromID to
	// toID and returns the ids of the affected rows. An empty result is not
	// an error at this layer.
	ReassignOwnership(ctx context.Context, itemID, fromID, toID uuid.UUID, toName string) ([]uuid.UUID, error)
}
