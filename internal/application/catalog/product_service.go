package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/catalog"
	"github.com/mfg/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductNameCache is a lookup cache for name to product id resolution.
// A nil-safe miss is not an error; cache failures must never fail a request.
type ProductNameCache interface {
	GetIDByName(ctx context.Context, name string) (uuid.UUID, bool, error)
	SetIDByName(ctx context.Context, name string, id uuid.UUID) error
	Invalidate(ctx context.Context, name string) error
}

// ObjectStorage defines the storage operations the catalog needs
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, error)
}

// ProductServiceConfig holds tunables for the product service
type ProductServiceConfig struct {
	// CompactOnDelete closes the position gap left by a deleted product
	CompactOnDelete bool
	// DownloadURLExpiry is the validity window of generated photo URLs
	DownloadURLExpiry time.Duration
}

// DefaultProductServiceConfig returns the default configuration
func DefaultProductServiceConfig() ProductServiceConfig {
	return ProductServiceConfig{
		CompactOnDelete:   true,
		DownloadURLExpiry: 24 * time.Hour,
	}
}

// ProductService handles product catalog operations, including the dense
// position ordering maintained across create, move and delete.
type ProductService struct {
	productRepo catalog.ProductRepository
	scope       TransactionScope
	nameCache   ProductNameCache
	storage     ObjectStorage
	config      ProductServiceConfig
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	scope TransactionScope,
	nameCache ProductNameCache,
	storage ObjectStorage,
	config ProductServiceConfig,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		scope:       scope,
		nameCache:   nameCache,
		storage:     storage,
		config:      config,
		logger:      logger,
	}
}

// Create creates a new product and places it at the requested position,
// shifting later products down by one. Without a requested position the
// product is appended at the end.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	purchasePrice := decimal.Zero
	sellingPrice := decimal.Zero
	if req.PurchasePrice != nil {
		purchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		sellingPrice = *req.SellingPrice
	}
	if !purchasePrice.IsZero() || !sellingPrice.IsZero() {
		if err := product.SetPrices(purchasePrice, sellingPrice); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.ProductRepo()

		liveCount, err := repo.CountLive(ctx)
		if err != nil {
			return err
		}

		if req.Position == nil {
			product.SetPosition(int(liveCount) + 1)
			return repo.Save(ctx, product)
		}

		pos, shift := catalog.InsertShift(*req.Position, liveCount)
		if err := repo.ShiftPositions(ctx, shift, nil); err != nil {
			return err
		}
		product.SetPosition(pos)
		return repo.Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	// a cached miss for this name is now stale
	if s.nameCache != nil {
		if err := s.nameCache.Invalidate(ctx, product.Name); err != nil {
			s.logger.Warn("product name cache invalidate failed", zap.String("name", product.Name), zap.Error(err))
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByName retrieves a product by case-insensitive name, going through the
// name cache when one is configured
func (s *ProductService) GetByName(ctx context.Context, name string) (*ProductResponse, error) {
	if s.nameCache != nil {
		id, hit, err := s.nameCache.GetIDByName(ctx, name)
		if err != nil {
			s.logger.Warn("product name cache lookup failed", zap.String("name", name), zap.Error(err))
		} else if hit {
			product, err := s.productRepo.FindByID(ctx, id)
			if err == nil {
				response := ToProductResponse(product)
				return &response, nil
			}
			// stale entry, fall through to the database
		}
	}

	product, err := s.productRepo.FindByNameFold(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.nameCache != nil {
		if err := s.nameCache.SetIDByName(ctx, name, product.ID); err != nil {
			s.logger.Warn("product name cache store failed", zap.String("name", name), zap.Error(err))
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination, ordered by
// position unless the caller asks otherwise
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "position"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Unit != "" {
		domainFilter.Filters["unit"] = filter.Unit
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update applies field changes and, when a position is requested, moves the
// product within the ordering, shifting the products in between
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var updated *catalog.Product

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.ProductRepo()

		product, err := repo.FindByID(ctx, productID)
		if err != nil {
			return err
		}
		oldName := product.Name

		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if req.Name != nil || req.Description != nil {
			if err := product.Update(name, description); err != nil {
				return err
			}
		}

		if req.PurchasePrice != nil || req.SellingPrice != nil {
			purchase := product.PurchasePrice
			selling := product.SellingPrice
			if req.PurchasePrice != nil {
				purchase = *req.PurchasePrice
			}
			if req.SellingPrice != nil {
				selling = *req.SellingPrice
			}
			if err := product.SetPrices(purchase, selling); err != nil {
				return err
			}
		}

		if req.Status != nil {
			switch catalog.ProductStatus(*req.Status) {
			case catalog.ProductStatusActive:
				product.Activate()
			case catalog.ProductStatusInactive:
				product.Deactivate()
			}
		}

		if req.Position != nil {
			liveCount, err := repo.CountLive(ctx)
			if err != nil {
				return err
			}
			pos, shift, needed := catalog.MoveShift(product.Position, *req.Position, liveCount)
			if needed {
				if err := repo.ShiftPositions(ctx, shift, &product.ID); err != nil {
					return err
				}
			}
			product.SetPosition(pos)
		}

		if err := repo.Save(ctx, product); err != nil {
			return err
		}

		if s.nameCache != nil && req.Name != nil && *req.Name != oldName {
			if err := s.nameCache.Invalidate(ctx, oldName); err != nil {
				s.logger.Warn("product name cache invalidate failed", zap.String("name", oldName), zap.Error(err))
			}
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(updated)
	return &response, nil
}

// Delete removes a product and, when compaction is enabled, closes the gap
// its position leaves behind
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.ProductRepo()

		product, err := repo.FindByID(ctx, productID)
		if err != nil {
			return err
		}

		if err := repo.Delete(ctx, productID); err != nil {
			return err
		}

		if s.config.CompactOnDelete {
			shift := catalog.PositionShift{Lo: product.Position + 1, Hi: 0, Delta: -1}
			if err := repo.ShiftPositions(ctx, shift, nil); err != nil {
				return err
			}
		}

		if s.nameCache != nil {
			if err := s.nameCache.Invalidate(ctx, product.Name); err != nil {
				s.logger.Warn("product name cache invalidate failed", zap.String("name", product.Name), zap.Error(err))
			}
		}

		return nil
	})
}

// UploadPhoto stores the product photo and records its location
func (s *ProductService) UploadPhoto(ctx context.Context, productID uuid.UUID, filename, contentType string, data []byte) (*ProductResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("products/%s/%s", productID, filename)
	if err := s.storage.Upload(ctx, storageKey, data, contentType); err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store product photo")
	}

	url, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Warn("photo download url generation failed", zap.String("key", storageKey), zap.Error(err))
	}

	product.SetPhoto(storageKey, url)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// NormalizePositions walks the catalog in display order and rewrites any
// position that drifted from the dense 1..N sequence. Each correction is
// logged so drift sources can be traced.
func (s *ProductService) NormalizePositions(ctx context.Context) (*NormalizeResult, error) {
	result := &NormalizeResult{}

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.ProductRepo()

		products, err := repo.ListByPosition(ctx)
		if err != nil {
			return err
		}
		result.Checked = len(products)

		corrected := make([]*catalog.Product, 0)
		for i := range products {
			expected := i + 1
			if products[i].Position != expected {
				s.logger.Warn("position drift corrected",
					zap.String("product_code", products[i].Code),
					zap.Int("stored", products[i].Position),
					zap.Int("expected", expected),
				)
				products[i].SetPosition(expected)
				corrected = append(corrected, &products[i])
			}
		}
		result.Corrected = len(corrected)

		if len(corrected) == 0 {
			return nil
		}
		return repo.SaveBatch(ctx, corrected)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
