package manufacturing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mfg/backend/internal/domain/manufacturing"
	"github.com/mfg/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ObjectStorage defines the storage operations the item lifecycle needs
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, error)
}

// LabelRenderer produces the printable label image for a box
type LabelRenderer interface {
	Render(content string) ([]byte, error)
}

// EmployeeDirectory resolves employee ids into assignment snapshots.
// Implementations reject unknown and inactive employees.
type EmployeeDirectory interface {
	Snapshot(ctx context.Context, id uuid.UUID) (manufacturing.EmployeeSnapshot, error)
}

// ItemServiceConfig holds tunables for the item service
type ItemServiceConfig struct {
	// LabelConcurrency caps parallel label render-and-upload workers
	LabelConcurrency int
	// DownloadURLExpiry is the validity window of generated label URLs
	DownloadURLExpiry time.Duration
}

// DefaultItemServiceConfig returns the default configuration
func DefaultItemServiceConfig() ItemServiceConfig {
	return ItemServiceConfig{
		LabelConcurrency:  8,
		DownloadURLExpiry: 24 * time.Hour,
	}
}

// ItemService handles the manufacturing item and box lifecycle. Box labels
// are rendered and uploaded before any database write, so a storage failure
// never leaves a half-labelled item behind.
type ItemService struct {
	itemRepo  manufacturing.ItemRepository
	scope     TransactionScope
	directory EmployeeDirectory
	storage   ObjectStorage
	renderer  LabelRenderer
	products  ProductLookup
	config    ItemServiceConfig
	logger    *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(
	itemRepo manufacturing.ItemRepository,
	scope TransactionScope,
	directory EmployeeDirectory,
	storage ObjectStorage,
	renderer LabelRenderer,
	config ItemServiceConfig,
	logger *zap.Logger,
) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.LabelConcurrency <= 0 {
		config.LabelConcurrency = DefaultItemServiceConfig().LabelConcurrency
	}
	return &ItemService{
		itemRepo:  itemRepo,
		scope:     scope,
		directory: directory,
		storage:   storage,
		renderer:  renderer,
		config:    config,
		logger:    logger,
	}
}

// SetProductLookup enables the catalog association on item listings. Items
// are joined to products by case-insensitive name match on the item number.
func (s *ItemService) SetProductLookup(lookup ProductLookup) {
	s.products = lookup
}

// labelArtifact is one rendered-and-uploaded box label
type labelArtifact struct {
	ordinal int
	key     string
	url     string
}

// labelKey includes a per-generation batch id so a resize never reuses the
// keys of the boxes it is replacing
func labelKey(itemNo, batchID string, ordinal int) string {
	return fmt.Sprintf("labels/%s/%s/%s.png", itemNo, batchID, manufacturing.SerialNumber(ordinal))
}

// labelContent builds the structured payload encoded into a box label:
// the item/box identity plus the assignment and production metadata a
// scanner reads offline. Deterministic for a given item state and serial.
func labelContent(item *manufacturing.Item, ordinal int) string {
	payload := struct {
		ItemNo   string `json:"item_no"`
		Serial   string `json:"serial"`
		Operator string `json:"operator"`
		Helper   string `json:"helper"`
		Shift    string `json:"shift"`
		Company  string `json:"company"`
		Machine  string `json:"machine"`
		IssuedAt string `json:"issued_at"`
	}{
		ItemNo:   item.ItemNo,
		Serial:   manufacturing.SerialNumber(ordinal),
		Operator: snapshotNames(item.Operators),
		Helper:   snapshotNames(item.Helpers),
		Shift:    item.Shift,
		Company:  item.Company,
		Machine:  item.Machine,
		IssuedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func snapshotNames(snapshots []manufacturing.EmployeeSnapshot) string {
	names := make([]string, len(snapshots))
	for i, s := range snapshots {
		names[i] = s.Name
	}
	return strings.Join(names, ",")
}

// generateLabels renders and uploads one label per ordinal, fanning out up
// to the configured concurrency. On any failure the uploads that already
// landed are deleted and the first error is returned.
func (s *ItemService) generateLabels(ctx context.Context, item *manufacturing.Item, ordinals []int) ([]labelArtifact, error) {
	artifacts := make([]labelArtifact, len(ordinals))
	batchID := uuid.NewString()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.LabelConcurrency)

	for i, ordinal := range ordinals {
		g.Go(func() error {
			png, err := s.renderer.Render(labelContent(item, ordinal))
			if err != nil {
				return fmt.Errorf("render label %s: %w", manufacturing.SerialNumber(ordinal), err)
			}

			key := labelKey(item.ItemNo, batchID, ordinal)
			if err := s.storage.Upload(gctx, key, png, "image/png"); err != nil {
				return fmt.Errorf("upload label %s: %w", key, err)
			}

			url, err := s.storage.GenerateDownloadURL(gctx, key, s.config.DownloadURLExpiry)
			if err != nil {
				s.logger.Warn("label download url generation failed", zap.String("key", key), zap.Error(err))
			}

			// written only after the upload succeeded, so the slot doubles
			// as the cleanup marker
			artifacts[i] = labelArtifact{ordinal: ordinal, key: key, url: url}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.cleanupLabels(ctx, artifacts)
		return nil, shared.NewDomainError("LABEL_GENERATION_FAILED", err.Error())
	}

	return artifacts, nil
}

// cleanupLabels best-effort deletes uploaded label objects
func (s *ItemService) cleanupLabels(ctx context.Context, artifacts []labelArtifact) {
	for _, a := range artifacts {
		if a.key == "" {
			continue
		}
		s.cleanupObject(ctx, a.key)
	}
}

func (s *ItemService) cleanupObject(ctx context.Context, key string) {
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("object cleanup failed", zap.String("key", key), zap.Error(err))
	}
}

func buildBoxes(itemID uuid.UUID, artifacts []labelArtifact) []manufacturing.Box {
	boxes := make([]manufacturing.Box, len(artifacts))
	for i, a := range artifacts {
		boxes[i] = manufacturing.NewBox(itemID, a.ordinal, a.key, a.url)
	}
	return boxes
}

func ordinalRange(from, to int) []int {
	ordinals := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		ordinals = append(ordinals, n)
	}
	return ordinals
}

// Create creates an item together with its full initial box batch. The
// item photo is mandatory. Photo and labels are uploaded before the item
// row is written; if the write fails the uploads are rolled back.
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	if len(req.Photo.Data) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Item photo is required")
	}

	exists, err := s.itemRepo.ExistsByItemNo(ctx, req.ItemNo)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Item with this number already exists")
	}

	helper, err := s.directory.Snapshot(ctx, req.HelperID)
	if err != nil {
		return nil, err
	}
	operator, err := s.directory.Snapshot(ctx, req.OperatorID)
	if err != nil {
		return nil, err
	}

	item, err := manufacturing.NewItem(req.ItemNo, manufacturing.ItemMetadata{
		Length:     req.Length,
		StickCount: req.StickCount,
		Shift:      req.Shift,
		Company:    req.Company,
		Machine:    req.Machine,
	}, helper, operator)
	if err != nil {
		return nil, err
	}

	photoKey := fmt.Sprintf("items/%s/%s", item.ID, req.Photo.Filename)
	if err := s.storage.Upload(ctx, photoKey, req.Photo.Data, req.Photo.ContentType); err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store item photo")
	}
	photoURL, err := s.storage.GenerateDownloadURL(ctx, photoKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Warn("photo download url generation failed", zap.String("key", photoKey), zap.Error(err))
	}
	item.SetPhoto(photoKey, photoURL)

	artifacts, err := s.generateLabels(ctx, item, ordinalRange(1, req.BoxCount))
	if err != nil {
		s.cleanupObject(ctx, photoKey)
		return nil, err
	}

	item.AttachBoxes(buildBoxes(item.ID, artifacts))

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ItemRepo().Save(ctx, item)
	})
	if err != nil {
		s.cleanupLabels(ctx, artifacts)
		s.cleanupObject(ctx, photoKey)
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item with its boxes
func (s *ItemService) GetByID(ctx context.Context, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// GetByItemNo retrieves an item by its business key
func (s *ItemService) GetByItemNo(ctx context.Context, itemNo string) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByItemNo(ctx, itemNo)
	if err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves items with filtering and pagination
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Shift != "" {
		domainFilter.Filters["shift"] = filter.Shift
	}
	if filter.Company != "" {
		domainFilter.Filters["company"] = filter.Company
	}
	if filter.Machine != "" {
		domainFilter.Filters["machine"] = filter.Machine
	}

	result, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := ToItemListResponses(result.Items)
	if s.products != nil {
		for i := range responses {
			ref, err := s.products.LookupByName(ctx, responses[i].ItemNo)
			if err != nil {
				s.logger.Warn("catalog association lookup failed",
					zap.String("item_no", responses[i].ItemNo), zap.Error(err))
				continue
			}
			responses[i].Product = ref
		}
	}

	return responses, result.Total, nil
}

// Update applies metadata changes and, when the requested box count differs
// from the current one, performs the destructive resize: the entire box
// list is regenerated with fresh identities and labels, and completion
// counters reset.
func (s *ItemService) Update(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	meta := manufacturing.ItemMetadata{
		Length:     item.Length,
		StickCount: item.StickCount,
		Shift:      item.Shift,
		Company:    item.Company,
		Machine:    item.Machine,
	}
	if req.Length != nil {
		meta.Length = *req.Length
	}
	if req.StickCount != nil {
		meta.StickCount = *req.StickCount
	}
	if req.Shift != nil {
		meta.Shift = *req.Shift
	}
	if req.Company != nil {
		meta.Company = *req.Company
	}
	if req.Machine != nil {
		meta.Machine = *req.Machine
	}
	item.UpdateMetadata(meta)

	resize := req.BoxCount != nil && *req.BoxCount != item.BoxCount()
	if !resize {
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			return repos.ItemRepo().Save(ctx, item)
		})
		if err != nil {
			return nil, err
		}

		response := ToItemResponse(item)
		return &response, nil
	}

	oldKeys := make([]labelArtifact, 0, item.BoxCount())
	for _, box := range item.Boxes {
		oldKeys = append(oldKeys, labelArtifact{key: box.LabelKey})
	}

	artifacts, err := s.generateLabels(ctx, item, ordinalRange(1, *req.BoxCount))
	if err != nil {
		return nil, err
	}

	boxes := buildBoxes(item.ID, artifacts)
	item.ReplaceBoxes(boxes)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ItemRepo().ReplaceBoxes(ctx, item, boxes)
	})
	if err != nil {
		s.cleanupLabels(ctx, artifacts)
		return nil, err
	}

	// old labels are gone from the item; their objects go too
	s.cleanupLabels(ctx, oldKeys)

	response := ToItemResponse(item)
	return &response, nil
}

// AddBoxes appends boxes to an item without touching the existing ones.
// Serials continue from the current count.
func (s *ItemService) AddBoxes(ctx context.Context, itemID uuid.UUID, req AddBoxesRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.BoxCount()+req.Count > manufacturing.MaxBoxes {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Total boxes cannot exceed %d", manufacturing.MaxBoxes))
	}

	first := item.BoxCount() + 1
	artifacts, err := s.generateLabels(ctx, item, ordinalRange(first, first+req.Count-1))
	if err != nil {
		return nil, err
	}

	boxes := buildBoxes(item.ID, artifacts)
	item.AppendBoxes(boxes)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ItemRepo().AppendBoxes(ctx, item, boxes)
	})
	if err != nil {
		s.cleanupLabels(ctx, artifacts)
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// UploadPhoto stores the item photo and records its location
func (s *ItemService) UploadPhoto(ctx context.Context, itemID uuid.UUID, filename, contentType string, data []byte) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("items/%s/%s", itemID, filename)
	if err := s.storage.Upload(ctx, storageKey, data, contentType); err != nil {
		return nil, shared.NewDomainError("UPLOAD_FAILED", "Failed to store item photo")
	}

	url, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Warn("photo download url generation failed", zap.String("key", storageKey), zap.Error(err))
	}

	item.SetPhoto(storageKey, url)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ItemRepo().Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	response := ToItemResponse(item)
	return &response, nil
}

// Delete removes an item with its boxes and best-effort deletes their
// label objects
func (s *ItemService) Delete(ctx context.Context, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.ItemRepo().Delete(ctx, itemID)
	})
	if err != nil {
		return err
	}

	for _, box := range item.Boxes {
		if box.LabelKey == "" {
			continue
		}
		if err := s.storage.DeleteObject(ctx, box.LabelKey); err != nil {
			s.logger.Warn("label cleanup failed", zap.String("key", box.LabelKey), zap.Error(err))
		}
	}
	if item.PhotoKey != "" {
		if err := s.storage.DeleteObject(ctx, item.PhotoKey); err != nil {
			s.logger.Warn("photo cleanup failed", zap.String("key", item.PhotoKey), zap.Error(err))
		}
	}

	return nil
}
