package manufacturing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/catalog"
	"github.com/mfg/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductRef is the catalog product association resolved for an item.
// Items are joined to products by case-insensitive name match on the item
// number; an item without a matching product carries no association.
type ProductRef struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// ProductLookup resolves the catalog product an item is named after
type ProductLookup interface {
	LookupByName(ctx context.Context, name string) (*ProductRef, error)
}

// NameCache is the subset of the catalog name cache the lookup needs.
// A cached uuid.Nil records a confirmed miss, so unmatched item numbers do
// not hit the database on every listing.
type NameCache interface {
	GetIDByName(ctx context.Context, name string) (uuid.UUID, bool, error)
	SetIDByName(ctx context.Context, name string, id uuid.UUID) error
}

// CatalogLookup joins item numbers to catalog products through the name
// cache
type CatalogLookup struct {
	products catalog.ProductRepository
	cache    NameCache
	logger   *zap.Logger
}

// NewCatalogLookup creates a CatalogLookup. The cache is optional.
func NewCatalogLookup(products catalog.ProductRepository, cache NameCache, logger *zap.Logger) *CatalogLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogLookup{
		products: products,
		cache:    cache,
		logger:   logger,
	}
}

// LookupByName resolves a product by case-insensitive exact name match.
// No match is not an error; it returns a nil reference.
func (l *CatalogLookup) LookupByName(ctx context.Context, name string) (*ProductRef, error) {
	if l.cache != nil {
		id, hit, err := l.cache.GetIDByName(ctx, name)
		if err != nil {
			l.logger.Warn("product lookup cache failed", zap.String("name", name), zap.Error(err))
		} else if hit {
			if id == uuid.Nil {
				return nil, nil
			}
			product, err := l.products.FindByID(ctx, id)
			if err == nil {
				return toProductRef(product), nil
			}
			// stale entry, fall through to the database
		}
	}

	product, err := l.products.FindByNameFold(ctx, name)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			l.cacheResult(ctx, name, uuid.Nil)
			return nil, nil
		}
		return nil, err
	}

	l.cacheResult(ctx, name, product.ID)
	return toProductRef(product), nil
}

func (l *CatalogLookup) cacheResult(ctx context.Context, name string, id uuid.UUID) {
	if l.cache == nil {
		return
	}
	if err := l.cache.SetIDByName(ctx, name, id); err != nil {
		l.logger.Warn("product lookup cache store failed", zap.String("name", name), zap.Error(err))
	}
}

func toProductRef(p *catalog.Product) *ProductRef {
	return &ProductRef{
		ID:   p.ID,
		Code: p.Code,
		Name: p.Name,
	}
}

var _ ProductLookup = (*CatalogLookup)(nil)
