package manufacturing

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
)

// TransferRepository persists the append-only transfer audit trail
type TransferRepository interface {
	Save(ctx context.Context, transfer *Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Transfer], error)
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]Transfer, error)
}
