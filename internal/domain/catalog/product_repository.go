package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products.
// ShiftPositions and ListByPosition exist for the position manager: shifts
// are bulk range updates, and the ordered listing feeds the normalize pass.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	// FindByNameFold finds a product by case-insensitive exact name match.
	// Used by the manufacturing listing join; absence is ErrNotFound.
	FindByNameFold(ctx context.Context, name string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	// ListByPosition returns all live products ordered by
	// (position ASC, updated_at DESC) for the normalize pass.
	ListByPosition(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	SaveBatch(ctx context.Context, products []*Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// CountLive returns the number of live products, the N of the
	// {1..N} position invariant.
	CountLive(ctx context.Context) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// ShiftPositions applies a bulk position shift to every product whose
	// position falls inside the range. Excluded is skipped when non-nil so
	// a mover is never shifted along with its neighbors.
	ShiftPositions(ctx context.Context, shift PositionShift, excluded *uuid.UUID) error
}
