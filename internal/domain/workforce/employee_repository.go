package workforce

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
)

// EmployeeRepository defines the persistence contract for the directory
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Employee], error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
