package manufacturing

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/shared"
)

// ItemRepository defines the persistence contract for manufacturing items.
// Implementations load and save the item together with its owned boxes.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByItemNo(ctx context.Context, itemNo string) (*Item, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Item], error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByItemNo(ctx context.Context, itemNo string) (bool, error)

	// ReplaceBoxes deletes every box row of the item and inserts the given
	// set in their place, in the same transaction as the item update.
	ReplaceBoxes(ctx context.Context, item *Item, boxes []Box) error

	// AppendBoxes inserts additional box rows without touching existing ones
	AppendBoxes(ctx context.Context, item *Item, boxes []Box) error
}
